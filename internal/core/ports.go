package core

import (
	"context"
	"time"
)

// ChunkScorer scores one chunk of email text, returning a phishing
// probability in [0,1]. Implementations must be safe for concurrent use or
// serialize access internally.
type ChunkScorer interface {
	// ScoreChunk returns the phishing probability for a single text chunk
	ScoreChunk(ctx context.Context, chunk string) (float64, error)

	// ModelID returns the identifier of the underlying model
	ModelID() string
}

// VerdictCache caches verdicts for previously scored payloads
type VerdictCache interface {
	// Get retrieves a cached verdict for a payload digest
	Get(key string) (*RiskVerdict, bool)

	// Set stores a verdict under a payload digest
	Set(key string, verdict *RiskVerdict, ttl time.Duration)

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
