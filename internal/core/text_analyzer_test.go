package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubScorer struct {
	prob float64
	err  error
}

func (s *stubScorer) ScoreChunk(_ context.Context, _ string) (float64, error) {
	return s.prob, s.err
}

func (s *stubScorer) ModelID() string {
	return "stub-model"
}

func newHeuristicAnalyzer(opts TextAnalyzerOptions) *TextAnalyzer {
	return NewTextAnalyzer(opts, false, nil, nil, zap.NewNop())
}

func TestTextAnalyzerEmptyContent(t *testing.T) {
	a := newHeuristicAnalyzer(TextAnalyzerOptions{})

	result := a.Analyze(context.Background(), "", "   ")
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, []string{"No text content found"}, result.Reasons)
	assert.Equal(t, 0, result.ChunkCount)
	assert.Equal(t, ScoreModeHeuristic, result.Mode)
}

func TestTextAnalyzerShortTextSingleChunk(t *testing.T) {
	a := newHeuristicAnalyzer(TextAnalyzerOptions{})

	result := a.Analyze(context.Background(), "Hello", "see you tomorrow")
	assert.Equal(t, 1, result.ChunkCount)
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 100.0)
}

func TestTextAnalyzerPhishingLanguageTriggersReason(t *testing.T) {
	a := newHeuristicAnalyzer(TextAnalyzerOptions{})

	body := "URGENT! Verify your password now. Your account login is suspended. " +
		"Confirm the invoice and reset your credentials, click below!"
	result := a.Analyze(context.Background(), "Action required", body)

	assert.Contains(t, result.Reasons, "Email text uses high-pressure or credential-themed language")
	assert.Greater(t, result.Score, 60.0)
}

func TestTextAnalyzerBenignTextNoReasons(t *testing.T) {
	a := newHeuristicAnalyzer(TextAnalyzerOptions{})

	result := a.Analyze(context.Background(), "lunch", "see you at noon by the park")
	assert.Empty(t, result.Reasons)
	assert.Less(t, result.Score, 35.0)
}

func TestTextAnalyzerChunkingAdvancesByStride(t *testing.T) {
	a := newHeuristicAnalyzer(TextAnalyzerOptions{ChunkWindow: 100, ChunkStride: 50})

	text := strings.Repeat("a", 220)
	chunks := a.chunkText(text)

	// Starts at 0, 50, 100, 150, 200
	assert.Len(t, chunks, 5)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[4], 20)

	// Text within the window is a single chunk, unchanged
	assert.Equal(t, []string{"short"}, a.chunkText("short"))
}

func TestTextAnalyzerMaxAggregationAtLeastMean(t *testing.T) {
	opts := TextAnalyzerOptions{ChunkWindow: 100, ChunkStride: 100}
	text := strings.Repeat("nothing to see here. ", 10) +
		"URGENT verify password login account suspended invoice!!!"

	mean := NewTextAnalyzer(TextAnalyzerOptions{ChunkWindow: opts.ChunkWindow, ChunkStride: opts.ChunkStride, Aggregation: "mean"}, false, nil, nil, zap.NewNop())
	max := NewTextAnalyzer(TextAnalyzerOptions{ChunkWindow: opts.ChunkWindow, ChunkStride: opts.ChunkStride, Aggregation: "max"}, false, nil, nil, zap.NewNop())

	meanResult := mean.Analyze(context.Background(), "", text)
	maxResult := max.Analyze(context.Background(), "", text)

	assert.GreaterOrEqual(t, maxResult.Score, meanResult.Score)
	assert.Equal(t, "mean", meanResult.Aggregation)
	assert.Equal(t, "max", maxResult.Aggregation)
}

func TestTextAnalyzerBackendStates(t *testing.T) {
	// Not requested
	a := NewTextAnalyzer(TextAnalyzerOptions{}, false, nil, nil, zap.NewNop())
	assert.Equal(t, BackendNotRequested, a.State())
	assert.Equal(t, ScoreModeHeuristic, a.Mode())

	// Requested and ready
	a = NewTextAnalyzer(TextAnalyzerOptions{}, true, &stubScorer{prob: 0.9}, nil, zap.NewNop())
	assert.Equal(t, BackendReady, a.State())
	assert.Equal(t, ScoreModeClassifier, a.Mode())

	// Requested but construction failed: heuristic for process lifetime
	a = NewTextAnalyzer(TextAnalyzerOptions{}, true, nil, errors.New("no api key"), zap.NewNop())
	assert.Equal(t, BackendUnavailable, a.State())
	assert.Equal(t, ScoreModeHeuristic, a.Mode())

	// Requested but factory produced nothing
	a = NewTextAnalyzer(TextAnalyzerOptions{}, true, nil, nil, zap.NewNop())
	assert.Equal(t, BackendUnavailable, a.State())
}

func TestTextAnalyzerClassifierScoresChunks(t *testing.T) {
	a := NewTextAnalyzer(TextAnalyzerOptions{}, true, &stubScorer{prob: 0.8}, nil, zap.NewNop())

	result := a.Analyze(context.Background(), "hello", "just a regular note")
	assert.Equal(t, 80.0, result.Score)
	assert.Equal(t, ScoreModeClassifier, result.Mode)
	assert.Contains(t, result.Reasons, "Email text uses high-pressure or credential-themed language")
	assert.Contains(t, result.Reasons, "Classifier text model evaluated this content")
}

func TestTextAnalyzerClassifierErrorDegradesChunkOnly(t *testing.T) {
	a := NewTextAnalyzer(TextAnalyzerOptions{}, true, &stubScorer{err: errors.New("timeout")}, nil, zap.NewNop())

	result := a.Analyze(context.Background(), "lunch", "see you at noon")
	// The chunk fell back to the heuristic score but the mode stays classifier
	assert.Equal(t, ScoreModeClassifier, result.Mode)
	assert.Equal(t, BackendReady, a.State())
	assert.Less(t, result.Score, 35.0)
}

func TestTextAnalyzerClassifierProbabilityClamped(t *testing.T) {
	a := NewTextAnalyzer(TextAnalyzerOptions{}, true, &stubScorer{prob: 4.2}, nil, zap.NewNop())

	result := a.Analyze(context.Background(), "x", "y")
	assert.Equal(t, 100.0, result.Score)
}

func TestHeuristicChunkScoreBounds(t *testing.T) {
	assert.Equal(t, 1.0, heuristicChunkScore("URGENT VERIFY PASSWORD LOGIN ACCOUNT SUSPENDED INVOICE RESET CONFIRM!!!"))
	assert.GreaterOrEqual(t, heuristicChunkScore(""), 0.0)
	assert.LessOrEqual(t, heuristicChunkScore("plain words only"), 1.0)
}
