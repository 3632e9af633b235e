package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/config"
	"github.com/phishguard/phish-guard/internal/core"
	"github.com/phishguard/phish-guard/internal/factory"
	"github.com/phishguard/phish-guard/internal/feeds"
	"github.com/phishguard/phish-guard/internal/logging"
	"github.com/phishguard/phish-guard/internal/ports"
	"github.com/phishguard/phish-guard/internal/utils"
)

// classifierResult carries the chunk scorer together with its construction
// error. Backend construction failure must not fail the container; the text
// analyzer records it and falls back to heuristic scoring for the process
// lifetime.
type classifierResult struct {
	scorer core.ChunkScorer
	err    error
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register classifier backend (failure is carried, not returned)
	if err := container.Provide(func(f *factory.ClassifierFactory) classifierResult {
		scorer, err := f.CreateChunkScorer()
		return classifierResult{scorer: scorer, err: err}
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(res classifierResult) core.ChunkScorer {
		return res.scorer
	}); err != nil {
		return nil, err
	}

	// Register reputation feed
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *feeds.ReputationFeed {
		feedsCfg := cfg.GetFeeds()
		return feeds.NewReputationFeed(feedsCfg.Domains, feedsCfg.IPs, logger)
	}); err != nil {
		return nil, err
	}

	// Register analyzers
	if err := container.Provide(func(cfg *config.Config, res classifierResult, logger *zap.Logger) *core.TextAnalyzer {
		textCfg := cfg.GetText()
		return core.NewTextAnalyzer(
			core.TextAnalyzerOptions{
				ChunkWindow: textCfg.ChunkWindow,
				ChunkStride: textCfg.ChunkStride,
				Aggregation: textCfg.Aggregation,
			},
			cfg.GetClassifier().Enabled,
			res.scorer,
			res.err,
			logger,
		)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewURLAnalyzer); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewSenderAnalyzer); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewAttachmentAnalyzer); err != nil {
		return nil, err
	}

	// Register verdict cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.VerdictCache, error) {
		return f.CreateVerdictCache()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register max body chars
	if err := container.Provide(func(cfg *config.Config) int {
		return cfg.GetText().MaxBodyChars
	}); err != nil {
		return nil, err
	}

	// Register whitelisted domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) []string {
		whitelistedDomains := cfg.GetStringSlice("risk.whitelisted_domains")
		if len(whitelistedDomains) > 0 {
			logger.Info("Loaded whitelisted domains", zap.Strings("domains", whitelistedDomains))
		}
		return whitelistedDomains
	}); err != nil {
		return nil, err
	}

	// Register risk scoring service
	if err := container.Provide(core.NewRiskService); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
