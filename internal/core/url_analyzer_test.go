package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/feeds"
)

func newTestURLAnalyzer(rawDomains, rawIPs string) *URLAnalyzer {
	return NewURLAnalyzer(feeds.NewReputationFeed(rawDomains, rawIPs, zap.NewNop()))
}

func TestURLAnalyzerEmptyInput(t *testing.T) {
	a := newTestURLAnalyzer("", "")

	result := a.Analyze(nil)
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Reasons)
	assert.Equal(t, 0, result.URLCount)
}

func TestURLAnalyzerBenignURL(t *testing.T) {
	a := newTestURLAnalyzer("", "")

	result := a.Analyze([]string{"https://python.org/docs"})
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Reasons)
	assert.Equal(t, 1, result.URLCount)

	result = a.Analyze([]string{"https://www.python.org/downloads/"})
	assert.LessOrEqual(t, result.Score, 10.0)
}

func TestURLAnalyzerIPHostWithKeyword(t *testing.T) {
	a := newTestURLAnalyzer("", "")

	result := a.Analyze([]string{"http://10.0.0.1/verify/login"})
	assert.Equal(t, 28.0, result.Score)
	assert.Contains(t, result.Reasons, "URL uses an IP address instead of a domain: 10.0.0.1")
	assert.Contains(t, result.Reasons, "Suspicious keyword found in URL: http://10.0.0.1/verify/login")
}

func TestURLAnalyzerFeedFlaggedIP(t *testing.T) {
	a := newTestURLAnalyzer("", "45.10.120.7")

	result := a.Analyze([]string{"http://45.10.120.7/"})
	// Feed hit and bare-IP rule both fire
	assert.Equal(t, 55.0, result.Score)
	assert.Contains(t, result.Reasons, "IP reputation feed flagged URL host: 45.10.120.7")
}

func TestURLAnalyzerFeedMatchesParentDomain(t *testing.T) {
	a := newTestURLAnalyzer("evil.com", "")

	result := a.Analyze([]string{"http://a.b.evil.com/x"})
	assert.Contains(t, result.Reasons, "Domain reputation feed flagged URL host: evil.com")
	assert.GreaterOrEqual(t, result.Score, 35.0)
}

func TestURLAnalyzerMalformedURL(t *testing.T) {
	a := newTestURLAnalyzer("", "")

	result := a.Analyze([]string{"not a url"})
	assert.Equal(t, 5.0, result.Score)
	assert.Equal(t, []string{"Malformed URL detected: not a url"}, result.Reasons)
}

func TestURLAnalyzerShortener(t *testing.T) {
	a := newTestURLAnalyzer("", "")

	result := a.Analyze([]string{"https://bit.ly/abc"})
	assert.Equal(t, 14.0, result.Score)
	assert.Equal(t, []string{"Shortened URL service used: bit.ly"}, result.Reasons)
}

func TestURLAnalyzerUncommonTLD(t *testing.T) {
	a := newTestURLAnalyzer("", "")

	result := a.Analyze([]string{"http://example.top/"})
	assert.Equal(t, 10.0, result.Score)
	assert.Equal(t, []string{"Uncommon TLD found in URL: .top"}, result.Reasons)
}

func TestURLAnalyzerExcessiveSubdomainsAndPunycode(t *testing.T) {
	a := newTestURLAnalyzer("", "")

	result := a.Analyze([]string{"http://a.b.c.example.com/"})
	assert.Equal(t, 12.0, result.Score)

	result = a.Analyze([]string{"http://xn--pypal-4ve.com/"})
	assert.Equal(t, 18.0, result.Score)
}

func TestURLAnalyzerVeryLongURL(t *testing.T) {
	a := newTestURLAnalyzer("", "")

	long := "https://example.com/?q=" + strings.Repeat("a", 120)

	result := a.Analyze([]string{long})
	assert.Equal(t, 7.0, result.Score)
	assert.Contains(t, result.Reasons, "Very long URL detected")
}

func TestURLAnalyzerScoreClampedAt100(t *testing.T) {
	a := newTestURLAnalyzer("evil.top", "")

	urls := []string{
		"http://a.b.c.evil.top/verify",
		"http://x.y.z.evil.top/login",
		"http://p.q.r.evil.top/reset",
	}
	result := a.Analyze(urls)
	assert.Equal(t, 100.0, result.Score)
}
