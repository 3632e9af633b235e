package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombineScoresWeightedSum(t *testing.T) {
	verdict := CombineScores(
		TextResult{Score: 90},
		URLResult{Score: 80},
		SenderResult{Score: 70},
		AttachmentResult{Score: 60},
	)

	// 90*0.40 + 80*0.25 + 70*0.20 + 60*0.15 = 79
	assert.Equal(t, 79.0, verdict.RiskScore)
	assert.Equal(t, RiskHigh, verdict.RiskLevel)
	assert.Equal(t, 90.0, verdict.Indicators.Text)
	assert.Equal(t, 80.0, verdict.Indicators.URL)
	assert.Equal(t, 70.0, verdict.Indicators.Sender)
	assert.Equal(t, 60.0, verdict.Indicators.Attachment)
	assert.False(t, verdict.AnalyzedAt.IsZero())
}

func TestCombineScoresLowRisk(t *testing.T) {
	verdict := CombineScores(
		TextResult{Score: 5},
		URLResult{},
		SenderResult{Score: 5},
		AttachmentResult{},
	)

	assert.Equal(t, 3.0, verdict.RiskScore)
	assert.Equal(t, RiskLow, verdict.RiskLevel)
	assert.Equal(t, "No major phishing signals detected, but remain cautious.", verdict.RecommendedAction)
}

func TestCombineScoresLevelBoundaries(t *testing.T) {
	medium := CombineScores(TextResult{Score: 100}, URLResult{Score: 0}, SenderResult{Score: 0}, AttachmentResult{Score: 0})
	assert.Equal(t, 40.0, medium.RiskScore)
	assert.Equal(t, RiskMedium, medium.RiskLevel)
	assert.Equal(t, "Proceed with caution and verify key details before taking action.", medium.RecommendedAction)

	high := CombineScores(TextResult{Score: 100}, URLResult{Score: 100}, SenderResult{Score: 25}, AttachmentResult{Score: 0})
	assert.Equal(t, 70.0, high.RiskScore)
	assert.Equal(t, RiskHigh, high.RiskLevel)
	assert.Equal(t, "Do not click links or open attachments. Verify sender through a trusted channel.", high.RecommendedAction)
}

func TestCombineScoresReasonOrderAndCap(t *testing.T) {
	textReasons := []string{"t1", "t2", "t3"}
	urlReasons := []string{"u1", "u2", "u3"}
	senderReasons := []string{"s1", "s2"}
	attachmentReasons := []string{"a1", "a2"}

	verdict := CombineScores(
		TextResult{Reasons: textReasons},
		URLResult{Reasons: urlReasons},
		SenderResult{Reasons: senderReasons},
		AttachmentResult{Reasons: attachmentReasons},
	)

	assert.Len(t, verdict.Reasons, 8)
	assert.Equal(t, []string{"t1", "t2", "t3", "u1", "u2", "u3", "s1", "s2"}, verdict.Reasons)
}

func TestCombineScoresFallbackReason(t *testing.T) {
	verdict := CombineScores(TextResult{}, URLResult{}, SenderResult{}, AttachmentResult{})

	assert.Equal(t, []string{"No high-confidence phishing indicators were triggered"}, verdict.Reasons)
	assert.Equal(t, 0.0, verdict.RiskScore)
}

func TestCombineScoresDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		a := CombineScores(TextResult{Score: 33.33}, URLResult{Score: 66.67}, SenderResult{Score: 12.5}, AttachmentResult{Score: 99.99})
		b := CombineScores(TextResult{Score: 33.33}, URLResult{Score: 66.67}, SenderResult{Score: 12.5}, AttachmentResult{Score: 99.99})
		assert.Equal(t, a.RiskScore, b.RiskScore, fmt.Sprintf("iteration %d", i))
		assert.Equal(t, a.RiskLevel, b.RiskLevel)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.14, round2(3.14159))
	assert.Equal(t, 1.24, round2(1.239))
	assert.Equal(t, 0.0, round2(0.0))
}
