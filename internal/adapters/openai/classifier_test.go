package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClassifierRequiresAPIKey(t *testing.T) {
	_, err := NewClassifier("", "gpt-4", 200, 0.0, 0.9, zap.NewNop())
	assert.Error(t, err)
}

func TestNewClassifierModelID(t *testing.T) {
	c, err := NewClassifier("sk-test", "gpt-4", 200, 0.0, 0.9, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", c.ModelID())
}

func TestParseChunkScoreResponsePlainJSON(t *testing.T) {
	parsed, err := parseChunkScoreResponse(`{"probability": 0.82, "explanation": "credential lure"}`)
	require.NoError(t, err)
	assert.Equal(t, 0.82, parsed.Probability)
	assert.Equal(t, "credential lure", parsed.Explanation)
}

func TestParseChunkScoreResponseWithSurroundingProse(t *testing.T) {
	text := "Here is my assessment:\n{\"probability\": 0.4, \"explanation\": \"some urgency\"}\nThanks."
	parsed, err := parseChunkScoreResponse(text)
	require.NoError(t, err)
	assert.Equal(t, 0.4, parsed.Probability)
}

func TestParseChunkScoreResponseNoJSON(t *testing.T) {
	_, err := parseChunkScoreResponse("I cannot determine this.")
	assert.Error(t, err)
}

func TestClampProbability(t *testing.T) {
	assert.Equal(t, 0.0, clampProbability(-0.5))
	assert.Equal(t, 1.0, clampProbability(1.5))
	assert.Equal(t, 0.7, clampProbability(0.7))
}
