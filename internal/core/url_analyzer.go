package core

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"strings"

	"github.com/phishguard/phish-guard/internal/feeds"
)

var suspiciousURLKeywords = []string{"verify", "urgent", "login", "reset", "invoice", "password"}

var shortenerHosts = map[string]struct{}{
	"bit.ly":      {},
	"tinyurl.com": {},
	"t.co":        {},
	"goo.gl":      {},
	"ow.ly":       {},
	"is.gd":       {},
}

var uncommonTLDs = map[string]struct{}{
	"top":   {},
	"xyz":   {},
	"click": {},
	"work":  {},
	"gq":    {},
	"ml":    {},
	"cf":    {},
	"tk":    {},
	"zip":   {},
}

// URLAnalyzer scores a list of deduplicated URLs against the reputation feed
// and structural heuristics. Penalties are additive across rules and URLs;
// the sum is clamped to 100.
type URLAnalyzer struct {
	feed *feeds.ReputationFeed
}

// NewURLAnalyzer creates a URL analyzer bound to an immutable reputation feed
func NewURLAnalyzer(feed *feeds.ReputationFeed) *URLAnalyzer {
	return &URLAnalyzer{feed: feed}
}

// Analyze scores the given URLs. Empty input yields score 0 with no reasons.
func (a *URLAnalyzer) Analyze(urls []string) URLResult {
	var reasons []string
	score := 0.0

	for _, raw := range urls {
		hostname := ""
		pathAndQuery := ""
		if parsed, err := url.Parse(raw); err == nil {
			hostname = strings.ToLower(parsed.Hostname())
			pathAndQuery = strings.ToLower(parsed.Path + " " + parsed.RawQuery)
		}

		if hostname == "" {
			score += 5
			reasons = append(reasons, fmt.Sprintf("Malformed URL detected: %s", raw))
			continue
		}

		hostIsIP := net.ParseIP(hostname) != nil
		if hostIsIP {
			if a.feed.IsMaliciousIP(hostname) {
				score += 35
				reasons = append(reasons, fmt.Sprintf("IP reputation feed flagged URL host: %s", hostname))
			}
		} else if matched := a.matchDomainFeed(hostname); matched != "" {
			score += 35
			reasons = append(reasons, fmt.Sprintf("Domain reputation feed flagged URL host: %s", matched))
		}

		// A bare IP instead of a domain is suspicious on its own, feed hit
		// or not.
		if hostIsIP {
			score += 20
			reasons = append(reasons, fmt.Sprintf("URL uses an IP address instead of a domain: %s", hostname))
		}

		if subdomainCount(hostname) >= 3 {
			score += 12
			reasons = append(reasons, fmt.Sprintf("URL has excessive subdomains: %s", hostname))
		}

		if strings.Contains(hostname, "xn--") {
			score += 18
			reasons = append(reasons, fmt.Sprintf("Possible punycode domain detected: %s", hostname))
		}

		if _, ok := shortenerHosts[hostname]; ok {
			score += 14
			reasons = append(reasons, fmt.Sprintf("Shortened URL service used: %s", hostname))
		}

		if containsSuspiciousKeyword(hostname, pathAndQuery) {
			score += 8
			reasons = append(reasons, fmt.Sprintf("Suspicious keyword found in URL: %s", raw))
		}

		if tld := topLevelDomain(hostname); tld != "" {
			if _, ok := uncommonTLDs[tld]; ok {
				score += 10
				reasons = append(reasons, fmt.Sprintf("Uncommon TLD found in URL: .%s", tld))
			}
		}

		if len(raw) > 120 {
			score += 7
			reasons = append(reasons, "Very long URL detected")
		}
	}

	return URLResult{
		Score:    round2(math.Min(100.0, score)),
		Reasons:  reasons,
		URLCount: len(urls),
	}
}

// matchDomainFeed walks the hostname and its parent domains (a.b.evil.com,
// b.evil.com, evil.com) and returns the first one present in the feed.
func (a *URLAnalyzer) matchDomainFeed(hostname string) string {
	parts := strings.Split(hostname, ".")
	if len(parts) < 2 {
		return ""
	}
	for i := 0; i < len(parts)-1; i++ {
		candidate := strings.Join(parts[i:], ".")
		if a.feed.IsMaliciousDomain(candidate) {
			return candidate
		}
	}
	return ""
}

func subdomainCount(hostname string) int {
	count := len(strings.Split(hostname, ".")) - 2
	if count < 0 {
		return 0
	}
	return count
}

func containsSuspiciousKeyword(hostname, pathAndQuery string) bool {
	for _, keyword := range suspiciousURLKeywords {
		if strings.Contains(pathAndQuery, keyword) || strings.Contains(hostname, keyword) {
			return true
		}
	}
	return false
}

func topLevelDomain(hostname string) string {
	if !strings.Contains(hostname, ".") {
		return ""
	}
	return hostname[strings.LastIndex(hostname, ".")+1:]
}
