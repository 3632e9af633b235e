package feeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDefaultBlocklistsApplyWhenEmpty(t *testing.T) {
	feed := NewReputationFeed("", "", zap.NewNop())

	assert.True(t, feed.IsMaliciousDomain("example-phish.com"))
	assert.True(t, feed.IsMaliciousIP("45.10.120.7"))
	assert.False(t, feed.IsMaliciousDomain("example.com"))
	assert.False(t, feed.IsMaliciousIP("8.8.8.8"))
}

func TestConfiguredFeedReplacesDefaults(t *testing.T) {
	feed := NewReputationFeed("Evil.com, bad.net\nworse.org", "10.1.2.3", zap.NewNop())

	assert.True(t, feed.IsMaliciousDomain("evil.com"))
	assert.True(t, feed.IsMaliciousDomain("bad.net"))
	assert.True(t, feed.IsMaliciousDomain("worse.org"))
	assert.True(t, feed.IsMaliciousIP("10.1.2.3"))

	// Built-in entries no longer apply once a feed is configured
	assert.False(t, feed.IsMaliciousDomain("example-phish.com"))
	assert.False(t, feed.IsMaliciousIP("45.10.120.7"))
}

func TestFeedLookupIsExact(t *testing.T) {
	feed := NewReputationFeed("evil.com", "", zap.NewNop())

	// Parent-domain walking is the URL analyzer's job, not the feed's
	assert.False(t, feed.IsMaliciousDomain("sub.evil.com"))
	assert.True(t, feed.IsMaliciousDomain("evil.com"))
}

func TestNilLoggerAccepted(t *testing.T) {
	feed := NewReputationFeed("", "", nil)
	assert.True(t, feed.IsMaliciousDomain("example-phish.com"))
}
