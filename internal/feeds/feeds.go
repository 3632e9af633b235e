package feeds

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Built-in blocklists used when no external feed values are configured.
var (
	defaultMaliciousDomains = []string{
		"example-phish.com",
		"secure-login-alert.net",
		"account-verify-now.top",
	}
	defaultMaliciousIPs = []string{
		"45.10.120.7",
		"185.234.218.12",
		"91.219.236.221",
	}
)

var feedSeparator = regexp.MustCompile(`[,\s]+`)

// ReputationFeed holds the known-malicious domain and IP blocklists consulted
// by the URL analyzer. It is loaded once at startup and read-only afterwards;
// reloading requires a process restart.
type ReputationFeed struct {
	domains map[string]struct{}
	ips     map[string]struct{}
}

// NewReputationFeed builds a feed from raw comma/whitespace-separated domain
// and IP lists. Empty values fall back to the built-in default blocklists.
func NewReputationFeed(rawDomains, rawIPs string, logger *zap.Logger) *ReputationFeed {
	domains := parseFeedValues(rawDomains)
	ips := parseFeedValues(rawIPs)

	if len(domains) == 0 {
		domains = toSet(defaultMaliciousDomains)
	}
	if len(ips) == 0 {
		ips = toSet(defaultMaliciousIPs)
	}

	if logger != nil {
		logger.Info("Loaded reputation feed",
			zap.Int("domains", len(domains)),
			zap.Int("ips", len(ips)))
	}

	return &ReputationFeed{domains: domains, ips: ips}
}

// IsMaliciousDomain reports whether the exact (lowercase) domain is in the feed.
func (f *ReputationFeed) IsMaliciousDomain(domain string) bool {
	_, ok := f.domains[domain]
	return ok
}

// IsMaliciousIP reports whether the IP literal is in the feed.
func (f *ReputationFeed) IsMaliciousIP(ip string) bool {
	_, ok := f.ips[ip]
	return ok
}

func parseFeedValues(raw string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, item := range feedSeparator.Split(raw, -1) {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out[item] = struct{}{}
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
