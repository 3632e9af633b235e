package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/core"
)

func testVerdict(score float64) *core.RiskVerdict {
	return &core.RiskVerdict{
		RiskScore:  score,
		RiskLevel:  core.RiskLow,
		Reasons:    []string{"No high-confidence phishing indicators were triggered"},
		AnalyzedAt: time.Now(),
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	c.Set("k1", testVerdict(12.5), time.Hour)

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, 12.5, got.RiskScore)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	c.Set("k1", testVerdict(1), -time.Second)

	_, ok := c.Get("k1")
	assert.False(t, ok)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	c.Set("k1", testVerdict(1), time.Hour)
	require.NoError(t, c.Delete(context.Background(), "k1"))

	_, ok := c.Get("k1")
	assert.False(t, ok)
}

func TestMemoryCacheCleanupRemovesExpired(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	c.Set("stale", testVerdict(1), -time.Second)
	c.Set("fresh", testVerdict(2), time.Hour)

	require.NoError(t, c.Cleanup(context.Background()))

	_, ok := c.Get("stale")
	assert.False(t, ok)
	got, ok := c.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, 2.0, got.RiskScore)
}
