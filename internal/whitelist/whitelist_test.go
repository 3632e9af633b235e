package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsWhitelisted(t *testing.T) {
	c := NewChecker([]string{"Trusted.COM", "  corp.example  "}, zap.NewNop())

	assert.True(t, c.IsWhitelisted("alice@trusted.com"))
	assert.True(t, c.IsWhitelisted("bob@TRUSTED.com"))
	assert.True(t, c.IsWhitelisted("ops@corp.example"))
	assert.False(t, c.IsWhitelisted("alice@evil.com"))
}

func TestIsWhitelistedInvalidAddress(t *testing.T) {
	c := NewChecker([]string{"trusted.com"}, zap.NewNop())

	assert.False(t, c.IsWhitelisted("no-at-sign"))
	assert.False(t, c.IsWhitelisted("two@@trusted.com"))
	assert.False(t, c.IsWhitelisted(""))
}

func TestEmptyWhitelistMatchesNothing(t *testing.T) {
	c := NewChecker(nil, zap.NewNop())
	assert.False(t, c.IsWhitelisted("alice@trusted.com"))
}
