package core

import (
	"math"
	"time"
)

// Fixed combiner weights per signal
const (
	weightText       = 0.40
	weightURL        = 0.25
	weightSender     = 0.20
	weightAttachment = 0.15
)

const maxVerdictReasons = 8

// CombineScores merges the four analyzer results into the final verdict.
// This is a pure deterministic fold: weighted sum, clamp, level derivation,
// reason concatenation in fixed order (text, url, sender, attachment)
// truncated to the first 8.
func CombineScores(text TextResult, url URLResult, sender SenderResult, attachment AttachmentResult) *RiskVerdict {
	weighted := text.Score*weightText +
		url.Score*weightURL +
		sender.Score*weightSender +
		attachment.Score*weightAttachment

	finalScore := round2(math.Min(100.0, weighted))
	level := riskLevelFor(finalScore)

	reasons := make([]string, 0, len(text.Reasons)+len(url.Reasons)+len(sender.Reasons)+len(attachment.Reasons))
	reasons = append(reasons, text.Reasons...)
	reasons = append(reasons, url.Reasons...)
	reasons = append(reasons, sender.Reasons...)
	reasons = append(reasons, attachment.Reasons...)

	if len(reasons) == 0 {
		reasons = []string{"No high-confidence phishing indicators were triggered"}
	}
	if len(reasons) > maxVerdictReasons {
		reasons = reasons[:maxVerdictReasons]
	}

	return &RiskVerdict{
		RiskScore: finalScore,
		RiskLevel: level,
		Reasons:   reasons,
		Indicators: Indicators{
			Text:       text.Score,
			URL:        url.Score,
			Sender:     sender.Score,
			Attachment: attachment.Score,
		},
		RecommendedAction: recommendedAction(level),
		TextMode:          text.Mode,
		AnalyzedAt:        time.Now(),
	}
}

func riskLevelFor(score float64) RiskLevel {
	if score >= 70 {
		return RiskHigh
	}
	if score >= 40 {
		return RiskMedium
	}
	return RiskLow
}

func recommendedAction(level RiskLevel) string {
	switch level {
	case RiskHigh:
		return "Do not click links or open attachments. Verify sender through a trusted channel."
	case RiskMedium:
		return "Proceed with caution and verify key details before taking action."
	default:
		return "No major phishing signals detected, but remain cautious."
	}
}

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
