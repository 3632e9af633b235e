package core

import (
	"fmt"
	"math"
	"strings"
)

var executableExts = map[string]struct{}{
	"exe": {},
	"scr": {},
	"bat": {},
	"cmd": {},
	"js":  {},
	"vbs": {},
	"ps1": {},
	"msi": {},
	"com": {},
}

var macroExts = map[string]struct{}{
	"docm": {},
	"xlsm": {},
	"pptm": {},
}

var archiveExts = map[string]struct{}{
	"zip": {},
	"rar": {},
	"7z":  {},
	"iso": {},
}

// AttachmentAnalyzer scores attachments by extension and filename pattern.
// Rules are additive across attachments; the sum is clamped to 100.
type AttachmentAnalyzer struct{}

// NewAttachmentAnalyzer creates a new attachment analyzer
func NewAttachmentAnalyzer() *AttachmentAnalyzer {
	return &AttachmentAnalyzer{}
}

// Analyze scores the given attachments. Empty input yields score 0.
func (a *AttachmentAnalyzer) Analyze(attachments []Attachment) AttachmentResult {
	var reasons []string
	score := 0.0

	for _, att := range attachments {
		ext := strings.Trim(strings.ToLower(att.Extension), ".")
		filenameLower := strings.ToLower(att.Filename)

		if _, ok := executableExts[ext]; ok {
			score += 30
			reasons = append(reasons, fmt.Sprintf("Executable-like attachment detected: %s", att.Filename))
		}

		if _, ok := macroExts[ext]; ok {
			score += 18
			reasons = append(reasons, fmt.Sprintf("Macro-enabled document detected: %s", att.Filename))
		}

		if _, ok := archiveExts[ext]; ok {
			score += 12
			reasons = append(reasons, fmt.Sprintf("Archive attachment detected: %s", att.Filename))
		}

		// invoice.pdf.exe style masquerade. Fires in addition to the plain
		// executable-extension rule.
		parts := strings.Split(filenameLower, ".")
		if len(parts) >= 3 {
			if _, ok := executableExts[parts[len(parts)-1]]; ok {
				score += 25
				reasons = append(reasons, fmt.Sprintf("Double extension pattern detected: %s", att.Filename))
			}
		}
	}

	return AttachmentResult{
		Score:   round2(math.Min(100.0, score)),
		Reasons: reasons,
		Count:   len(attachments),
	}
}
