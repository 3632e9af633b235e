package core

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var digitRun = regexp.MustCompile(`\d{3,}`)

var freeEmailDomains = map[string]struct{}{
	"gmail.com":   {},
	"outlook.com": {},
	"yahoo.com":   {},
	"hotmail.com": {},
	"proton.me":   {},
}

// trustedBrands maps a brand word to the domain a legitimate sender would
// use. Kept as a slice so reason order is reproducible. An empty expected
// domain means the brand word alone is not actionable ("bank").
var trustedBrands = []struct {
	brand          string
	expectedDomain string
}{
	{"paypal", "paypal.com"},
	{"microsoft", "microsoft.com"},
	{"google", "google.com"},
	{"apple", "apple.com"},
	{"amazon", "amazon.com"},
	{"bank", ""},
}

// SenderAnalyzer scores the sender address and display name for spoofing and
// brand-impersonation patterns.
type SenderAnalyzer struct {
	titleCaser cases.Caser
}

// NewSenderAnalyzer creates a new sender analyzer
func NewSenderAnalyzer() *SenderAnalyzer {
	return &SenderAnalyzer{
		titleCaser: cases.Title(language.English),
	}
}

// Analyze scores a sender address and optional display name. An address
// without an extractable domain short-circuits to score 100 with a single
// invalid-format reason.
func (a *SenderAnalyzer) Analyze(senderEmail, senderName string) SenderResult {
	domain := extractDomain(senderEmail)
	if domain == "" {
		return SenderResult{
			Score:   100.0,
			Reasons: []string{"Invalid sender email format"},
			Domain:  "",
		}
	}

	var reasons []string
	score := 0.0

	if digitRun.MatchString(domain) {
		score += 8
		reasons = append(reasons, "Sender domain contains unusual numeric pattern")
	}

	if _, ok := freeEmailDomains[domain]; ok {
		score += 6
		reasons = append(reasons, "Sender uses a free email provider")
	}

	if senderName != "" {
		lowerName := strings.ToLower(senderName)
		for _, entry := range trustedBrands {
			if entry.expectedDomain == "" {
				continue
			}
			if strings.Contains(lowerName, entry.brand) && !strings.Contains(domain, entry.expectedDomain) {
				score += 25
				reasons = append(reasons, fmt.Sprintf(
					"Sender name references %s but email domain is %s",
					a.titleCaser.String(entry.brand), domain))
			}
		}
	}

	return SenderResult{
		Score:   round2(math.Min(100.0, score)),
		Reasons: reasons,
		Domain:  domain,
	}
}

// extractDomain returns the lowercase domain after the last "@", or the
// empty string when the address has no usable domain.
func extractDomain(email string) string {
	idx := strings.LastIndex(email, "@")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(strings.ToLower(email[idx+1:]))
}
