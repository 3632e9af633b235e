package filter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/core"
)

// CliFilter implements a command-line interface for email triage
type CliFilter struct {
	service *core.RiskService
	logger  *zap.Logger
	verbose bool
}

// NewCliFilter creates a new CLI filter
func NewCliFilter(service *core.RiskService, logger *zap.Logger, verbose bool) (*CliFilter, error) {
	return &CliFilter{
		service: service,
		logger:  logger,
		verbose: verbose,
	}, nil
}

// ProcessEmail scores an email and displays the results
func (f *CliFilter) ProcessEmail(ctx context.Context, payload *core.EmailPayload) *core.RiskVerdict {
	f.logger.Debug("Processing email", zap.String("sender", payload.SenderEmail))

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", payload.SenderEmail)
	if payload.SenderName != "" {
		fmt.Printf("Display name: %s\n", payload.SenderName)
	}
	fmt.Printf("Subject: %s\n", payload.Subject)
	fmt.Printf("Body length: %d bytes\n", len(payload.BodyText))
	fmt.Printf("URLs: %d\n", len(payload.URLs))
	fmt.Printf("Attachments: %d\n", len(payload.Attachments))

	// Print body preview if verbose
	if f.verbose {
		preview := payload.BodyText
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nBody preview:\n%s\n", preview)
	}

	fmt.Printf("\n")

	// Score the email
	fmt.Printf("=== Analysis ===\n")
	startTime := time.Now()
	verdict := f.service.ScoreEmail(ctx, payload)
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Verdict ===\n")
	fmt.Printf("Risk score: %.2f\n", verdict.RiskScore)
	fmt.Printf("Risk level: %s\n", verdict.RiskLevel)
	fmt.Printf("Text mode: %s\n", verdict.TextMode)
	fmt.Printf("Indicators: text=%.2f url=%.2f sender=%.2f attachment=%.2f\n",
		verdict.Indicators.Text,
		verdict.Indicators.URL,
		verdict.Indicators.Sender,
		verdict.Indicators.Attachment)
	fmt.Printf("Reasons:\n  - %s\n", strings.Join(verdict.Reasons, "\n  - "))
	fmt.Printf("Recommended action: %s\n", verdict.RecommendedAction)
	fmt.Printf("Processing time: %v\n", duration)

	return verdict
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
