package core

import (
	"time"
)

// EmailPayload represents a structurally validated inbound email. The core
// never re-validates shape, only content.
type EmailPayload struct {
	SenderEmail string
	SenderName  string
	Subject     string
	BodyText    string
	URLs        []string
	Attachments []Attachment
}

// Attachment describes a single email attachment. Extension is lowercased
// with no leading dot.
type Attachment struct {
	Filename  string
	Extension string
	SizeKB    float64
	MIMEType  string
}

// ScoreMode identifies which backend produced a text score
type ScoreMode string

const (
	ScoreModeHeuristic  ScoreMode = "heuristic"
	ScoreModeClassifier ScoreMode = "classifier"
)

// RiskLevel is the discrete bucket derived from the final weighted score
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TextResult is the text analyzer's sub-score in [0,100] plus metadata
type TextResult struct {
	Score       float64
	Reasons     []string
	ChunkCount  int
	Aggregation string
	Mode        ScoreMode
}

// URLResult is the URL analyzer's sub-score in [0,100] plus the input count
type URLResult struct {
	Score    float64
	Reasons  []string
	URLCount int
}

// SenderResult is the sender analyzer's sub-score in [0,100] plus the
// extracted domain (empty only in the invalid-format short-circuit)
type SenderResult struct {
	Score   float64
	Reasons []string
	Domain  string
}

// AttachmentResult is the attachment analyzer's sub-score in [0,100]
type AttachmentResult struct {
	Score   float64
	Reasons []string
	Count   int
}

// Indicators carries the raw per-signal sub-scores for transparency
type Indicators struct {
	Text       float64 `json:"text"`
	URL        float64 `json:"url"`
	Sender     float64 `json:"sender"`
	Attachment float64 `json:"attachment"`
}

// RiskVerdict is the composite verdict returned to the caller. It is plain
// data suitable for direct serialization.
type RiskVerdict struct {
	RiskScore         float64    `json:"risk_score"`
	RiskLevel         RiskLevel  `json:"risk_level"`
	Reasons           []string   `json:"reasons"`
	Indicators        Indicators `json:"indicators"`
	RecommendedAction string     `json:"recommended_action"`
	TextMode          ScoreMode  `json:"text_mode"`
	AnalyzedAt        time.Time  `json:"analyzed_at"`
}

// CacheEntry is a cached verdict for a previously scored payload
type CacheEntry struct {
	Key       string
	Verdict   *RiskVerdict
	LastSeen  time.Time
	ExpiresAt time.Time
}
