package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TextProcessor provides utilities for normalizing email text before scoring
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// CleanText collapses all whitespace runs (including newlines) to single
// spaces, trims leading/trailing whitespace, and truncates to maxChars
// characters. The cap is a hard character cap, not word-aware. Empty input
// yields an empty string.
func (tp *TextProcessor) CleanText(text string, maxChars int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if maxChars <= 0 || utf8.RuneCountInString(normalized) <= maxChars {
		return normalized
	}

	runes := []rune(normalized)
	truncated := string(runes[:maxChars])

	tp.logger.Debug("Text truncated",
		zap.Int("original_chars", len(runes)),
		zap.Int("max_chars", maxChars))

	return truncated
}

// DedupeURLs trims each URL, drops empty ones, and returns each distinct
// trimmed value exactly once, in order of first occurrence.
func (tp *TextProcessor) DedupeURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		u := strings.TrimSpace(url)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters.
// Raw message bytes from the SMTP path can carry broken encodings.
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}
