package ports

import (
	"context"

	"github.com/phishguard/phish-guard/internal/core"
)

// EmailFilter defines the interface for an inbound email surface that feeds
// messages to the risk scoring service
type EmailFilter interface {
	// ProcessEmail scores a payload and returns the verdict
	ProcessEmail(ctx context.Context, payload *core.EmailPayload) *core.RiskVerdict

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
