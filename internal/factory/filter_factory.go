package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/adapters/filter"
	"github.com/phishguard/phish-guard/internal/config"
	"github.com/phishguard/phish-guard/internal/core"
	"github.com/phishguard/phish-guard/internal/ports"
	"github.com/phishguard/phish-guard/internal/utils"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	riskService   *core.RiskService
	textProcessor *utils.TextProcessor
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, riskService *core.RiskService, textProcessor *utils.TextProcessor) *FilterFactory {
	return &FilterFactory{
		cfg:           cfg,
		logger:        logger,
		riskService:   riskService,
		textProcessor: textProcessor,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	filterType := f.cfg.GetString("server.filter_type")

	switch filterType {
	case "smtp":
		return filter.NewSMTPFilter(
			f.riskService,
			f.textProcessor,
			f.logger,
			f.cfg.GetString("server.listen_address"),
			f.cfg.GetBool("server.block_high_risk"),
			f.cfg.GetString("server.headers.score"),
			f.cfg.GetString("server.headers.level"),
			f.cfg.GetString("server.headers.reason"),
			f.cfg.GetString("server.upstream.address"),
			f.cfg.GetInt("server.upstream.port"),
			f.cfg.GetBool("server.upstream.enabled"),
			f.cfg.GetString("server.subject_prefix"),
			f.cfg.GetBool("server.modify_subject"),
		), nil
	case "cli":
		return filter.NewCliFilter(
			f.riskService,
			f.logger,
			f.cfg.GetBool("cli.verbose"),
		)
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", filterType)
	}
}
