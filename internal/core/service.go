package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/utils"
	"github.com/phishguard/phish-guard/internal/whitelist"
)

// subjectMaxChars is the hard cap applied to subjects before scoring
const subjectMaxChars = 300

// RiskService is the single entry point for scoring an email. It normalizes
// the payload, runs the four analyzers, and folds their results into one
// verdict. The analyzers share only read-only feed and keyword data, so
// concurrent requests need no locking.
type RiskService struct {
	textAnalyzer       *TextAnalyzer
	urlAnalyzer        *URLAnalyzer
	senderAnalyzer     *SenderAnalyzer
	attachmentAnalyzer *AttachmentAnalyzer
	textProcessor      *utils.TextProcessor
	cache              VerdictCache
	logger             *zap.Logger
	cacheEnabled       bool
	cacheTTL           time.Duration
	maxBodyChars       int
	whitelist          *whitelist.Checker
}

// NewRiskService creates a new risk scoring service
func NewRiskService(
	textAnalyzer *TextAnalyzer,
	urlAnalyzer *URLAnalyzer,
	senderAnalyzer *SenderAnalyzer,
	attachmentAnalyzer *AttachmentAnalyzer,
	textProcessor *utils.TextProcessor,
	cache VerdictCache,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	maxBodyChars int,
	whitelistedDomains []string,
) *RiskService {
	return &RiskService{
		textAnalyzer:       textAnalyzer,
		urlAnalyzer:        urlAnalyzer,
		senderAnalyzer:     senderAnalyzer,
		attachmentAnalyzer: attachmentAnalyzer,
		textProcessor:      textProcessor,
		cache:              cache,
		logger:             logger,
		cacheEnabled:       cacheEnabled,
		cacheTTL:           cacheTTL,
		maxBodyChars:       maxBodyChars,
		whitelist:          whitelist.NewChecker(whitelistedDomains, logger),
	}
}

// ScoreEmail scores a validated payload and returns the verdict. The core
// never fails on well-typed input; every analyzer degrades to a conservative
// score instead of returning an error.
func (s *RiskService) ScoreEmail(ctx context.Context, payload *EmailPayload) *RiskVerdict {
	if s.isDomainWhitelisted(payload.SenderEmail) {
		s.logger.Info("Skipping risk scoring for whitelisted domain",
			zap.String("sender", payload.SenderEmail),
			zap.String("action", "whitelist_bypass"))

		return &RiskVerdict{
			RiskScore:         0.0,
			RiskLevel:         RiskLow,
			Reasons:           []string{"Sender domain is whitelisted"},
			RecommendedAction: recommendedAction(RiskLow),
			TextMode:          s.textAnalyzer.Mode(),
			AnalyzedAt:        time.Now(),
		}
	}

	cacheKey := ""
	if s.cacheEnabled && s.cache != nil {
		cacheKey = payloadDigest(payload)
		if verdict, ok := s.cache.Get(cacheKey); ok {
			s.logger.Debug("Verdict cache hit", zap.String("sender", payload.SenderEmail))
			return verdict
		}
	}

	cleanedSubject := s.textProcessor.CleanText(payload.Subject, subjectMaxChars)
	cleanedBody := s.textProcessor.CleanText(payload.BodyText, s.maxBodyChars)
	dedupedURLs := s.textProcessor.DedupeURLs(payload.URLs)

	verdict := s.Evaluate(ctx, cleanedSubject, cleanedBody, dedupedURLs,
		payload.SenderEmail, payload.SenderName, payload.Attachments)

	s.logger.Info("Analyzed email",
		zap.String("sender", payload.SenderEmail),
		zap.Float64("risk_score", verdict.RiskScore),
		zap.String("risk_level", string(verdict.RiskLevel)))

	if cacheKey != "" {
		s.cache.Set(cacheKey, verdict, s.cacheTTL)
	}

	return verdict
}

// Evaluate runs the four analyzers on already-normalized inputs and combines
// their results. The analyzers are independent; each is pure given its
// inputs and the shared read-only feed data.
func (s *RiskService) Evaluate(
	ctx context.Context,
	cleanedSubject string,
	cleanedBody string,
	dedupedURLs []string,
	senderEmail string,
	senderName string,
	attachments []Attachment,
) *RiskVerdict {
	textResult := s.textAnalyzer.Analyze(ctx, cleanedSubject, cleanedBody)
	urlResult := s.urlAnalyzer.Analyze(dedupedURLs)
	senderResult := s.senderAnalyzer.Analyze(senderEmail, senderName)
	attachmentResult := s.attachmentAnalyzer.Analyze(attachments)

	return CombineScores(textResult, urlResult, senderResult, attachmentResult)
}

// isDomainWhitelisted checks if the sender's domain is in the whitelist
func (s *RiskService) isDomainWhitelisted(email string) bool {
	return s.whitelist.IsWhitelisted(email)
}

// payloadDigest builds a stable cache key over the scored fields
func payloadDigest(payload *EmailPayload) string {
	h := sha256.New()
	h.Write([]byte(payload.SenderEmail))
	h.Write([]byte{0})
	h.Write([]byte(payload.Subject))
	h.Write([]byte{0})
	h.Write([]byte(payload.BodyText))
	for _, u := range payload.URLs {
		h.Write([]byte{0})
		h.Write([]byte(u))
	}
	for _, att := range payload.Attachments {
		h.Write([]byte{0})
		h.Write([]byte(att.Filename))
	}
	return hex.EncodeToString(h.Sum(nil))
}
