package core

import (
	"context"
	"math"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

var phishingKeywords = []string{
	"urgent",
	"verify",
	"login",
	"reset",
	"suspended",
	"click below",
	"confirm",
	"invoice",
	"password",
	"account",
}

const (
	defaultChunkWindow = 1200
	defaultChunkStride = 300

	// Reason thresholds on the 0-1 pre-scaling aggregate
	highPressureThreshold = 0.65
	phishingWordThreshold = 0.35
)

// BackendState tracks the one-time classifier backend decision. The state is
// fixed at construction for the process lifetime; there is no retry.
type BackendState int

const (
	// BackendNotRequested means the caller never opted in to the classifier
	BackendNotRequested BackendState = iota
	// BackendRequested is the transient opt-in state during initialization
	BackendRequested
	// BackendReady means the classifier initialized and scores every call
	BackendReady
	// BackendUnavailable means initialization failed; the heuristic scorer
	// serves every call for the rest of the process lifetime
	BackendUnavailable
)

// TextAnalyzerOptions configures chunking and aggregation
type TextAnalyzerOptions struct {
	ChunkWindow int
	ChunkStride int
	Aggregation string
}

// TextAnalyzer chunks merged subject+body text and scores each chunk via the
// selected backend, then aggregates the per-chunk scores.
type TextAnalyzer struct {
	backend     ChunkScorer
	state       BackendState
	window      int
	stride      int
	aggregation string
	logger      *zap.Logger
}

// NewTextAnalyzer creates a text analyzer. When requested is true the
// classifier backend was opted in: a non-nil backend moves the analyzer to
// BackendReady, while a backend construction error pins it to
// BackendUnavailable with heuristic scoring for the process lifetime.
func NewTextAnalyzer(opts TextAnalyzerOptions, requested bool, backend ChunkScorer, backendErr error, logger *zap.Logger) *TextAnalyzer {
	state := BackendNotRequested
	if requested {
		state = BackendRequested
		switch {
		case backendErr != nil:
			state = BackendUnavailable
			backend = nil
			logger.Warn("Text classifier backend failed to initialize, falling back to heuristic scoring for process lifetime",
				zap.Error(backendErr))
		case backend != nil:
			state = BackendReady
			logger.Info("Text classifier backend ready", zap.String("model", backend.ModelID()))
		default:
			state = BackendUnavailable
		}
	}

	window := opts.ChunkWindow
	if window <= 0 {
		window = defaultChunkWindow
	}
	stride := opts.ChunkStride
	if stride <= 0 {
		stride = defaultChunkStride
	}
	aggregation := opts.Aggregation
	if aggregation != "max" {
		aggregation = "mean"
	}

	return &TextAnalyzer{
		backend:     backend,
		state:       state,
		window:      window,
		stride:      stride,
		aggregation: aggregation,
		logger:      logger,
	}
}

// State returns the backend state fixed at construction
func (a *TextAnalyzer) State() BackendState {
	return a.state
}

// Mode returns which scoring mode serves requests
func (a *TextAnalyzer) Mode() ScoreMode {
	if a.state == BackendReady {
		return ScoreModeClassifier
	}
	return ScoreModeHeuristic
}

// Analyze merges the cleaned subject and body, chunks the text, scores each
// chunk, and aggregates. Empty merged text yields score 0 with a single
// no-text-content reason.
func (a *TextAnalyzer) Analyze(ctx context.Context, subject, body string) TextResult {
	merged := strings.TrimSpace(subject + "\n" + body)
	if merged == "" {
		return TextResult{
			Score:       0.0,
			Reasons:     []string{"No text content found"},
			ChunkCount:  0,
			Aggregation: a.aggregation,
			Mode:        a.Mode(),
		}
	}

	chunks := a.chunkText(merged)
	scores := make([]float64, 0, len(chunks))
	for _, chunk := range chunks {
		scores = append(scores, a.scoreChunk(ctx, chunk))
	}

	final := aggregateScores(scores, a.aggregation)

	var reasons []string
	if final >= highPressureThreshold {
		reasons = append(reasons, "Email text uses high-pressure or credential-themed language")
	} else if final >= phishingWordThreshold {
		reasons = append(reasons, "Email text includes some phishing-like wording")
	}
	if a.Mode() == ScoreModeClassifier {
		reasons = append(reasons, "Classifier text model evaluated this content")
	}

	return TextResult{
		Score:       round2(final * 100),
		Reasons:     reasons,
		ChunkCount:  len(chunks),
		Aggregation: a.aggregation,
		Mode:        a.Mode(),
	}
}

// scoreChunk uses the classifier when ready; a per-chunk classifier error
// degrades that single chunk to the heuristic score without changing the
// process-level mode.
func (a *TextAnalyzer) scoreChunk(ctx context.Context, chunk string) float64 {
	if a.state == BackendReady {
		prob, err := a.backend.ScoreChunk(ctx, chunk)
		if err != nil {
			a.logger.Warn("Classifier chunk scoring failed, using heuristic score for chunk", zap.Error(err))
			return heuristicChunkScore(chunk)
		}
		return math.Max(0.0, math.Min(1.0, prob))
	}
	return heuristicChunkScore(chunk)
}

// heuristicChunkScore combines keyword hits, uppercase ratio, and
// exclamation-mark count into a 0-1 score.
func heuristicChunkScore(chunk string) float64 {
	lower := strings.ToLower(chunk)
	hits := 0
	for _, keyword := range phishingKeywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}

	upper := 0
	total := 0
	for _, r := range chunk {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	capsRatio := float64(upper) / math.Max(1.0, float64(total))

	exclamations := strings.Count(chunk, "!")

	score := float64(hits)*0.12 + capsRatio*1.5 + math.Min(0.2, float64(exclamations)*0.01)
	return math.Min(1.0, score)
}

// chunkText splits the text into fixed-size character windows advancing by
// the stride. Text shorter than the window yields exactly one chunk.
// Overlapping windows can double-count keyword hits near boundaries; that is
// a known property of the windowing, not a bug.
func (a *TextAnalyzer) chunkText(text string) []string {
	runes := []rune(text)
	if len(runes) <= a.window {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(runes); start += a.stride {
		end := start + a.window
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func aggregateScores(scores []float64, aggregation string) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	if aggregation == "max" {
		max := scores[0]
		for _, s := range scores[1:] {
			if s > max {
				max = s
			}
		}
		return max
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
