package di

import (
	"flag"
	"strings"
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

// CLIFlags contains all command line flags for the triage application
type CLIFlags struct {
	// Classifier backend flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64

	// Text analysis flags
	MaxBodyChars int
	ChunkWindow  int
	ChunkStride  int
	Aggregation  string

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Reputation feed flags
	FeedDomains string
	FeedIPs     string

	// Risk flags
	Whitelist string

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Classifier backend flags
	flag.StringVar(&flags.Provider, "provider", "", "Classifier provider (openai, gemini, bedrock); empty runs heuristic scoring")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 200, "Maximum tokens for classifier response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.0, "Temperature for classifier generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for classifier generation")

	// Text analysis flags
	flag.IntVar(&flags.MaxBodyChars, "max-body-chars", 20000, "Maximum body characters to analyze")
	flag.IntVar(&flags.ChunkWindow, "chunk-window", 1200, "Chunk window size in characters")
	flag.IntVar(&flags.ChunkStride, "chunk-stride", 300, "Chunk stride in characters")
	flag.StringVar(&flags.Aggregation, "aggregation", "mean", "Chunk score aggregation (mean, max)")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Reputation feed flags
	flag.StringVar(&flags.FeedDomains, "feed-domains", "", "Comma-separated malicious domain feed (built-in list if empty)")
	flag.StringVar(&flags.FeedIPs, "feed-ips", "", "Comma-separated malicious IP feed (built-in list if empty)")

	// Risk flags
	flag.StringVar(&flags.Whitelist, "whitelist", "", "Comma-separated list of whitelisted sender domains")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the triage application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
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

	// Register risk scoring service with no cache
	if err := container.Provide(func(
		textAnalyzer *core.TextAnalyzer,
		urlAnalyzer *core.URLAnalyzer,
		senderAnalyzer *core.SenderAnalyzer,
		attachmentAnalyzer *core.AttachmentAnalyzer,
		textProcessor *utils.TextProcessor,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.RiskService {
		return core.NewRiskService(
			textAnalyzer,
			urlAnalyzer,
			senderAnalyzer,
			attachmentAnalyzer,
			textProcessor,
			nil, // No cache for CLI
			logger,
			false,            // Cache disabled
			time.Duration(0), // No TTL
			cfg.GetText().MaxBodyChars,
			cfg.GetStringSlice("risk.whitelisted_domains"),
		)
	}); err != nil {
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

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("server.filter_type", "cli")
	v.Set("cli.verbose", flags.Verbose)

	// Set classifier backend
	if flags.Provider != "" {
		v.Set("classifier.enabled", true)
		v.Set("classifier.provider", flags.Provider)
	}

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
	}

	// Set text analysis parameters
	v.Set("text.max_body_chars", flags.MaxBodyChars)
	v.Set("text.chunk_window", flags.ChunkWindow)
	v.Set("text.chunk_stride", flags.ChunkStride)
	v.Set("text.aggregation", flags.Aggregation)

	// Set reputation feeds
	v.Set("feeds.domains", flags.FeedDomains)
	v.Set("feeds.ips", flags.FeedIPs)

	// Set whitelisted domains
	if flags.Whitelist != "" {
		domains := strings.Split(flags.Whitelist, ",")
		for i, domain := range domains {
			domains[i] = strings.TrimSpace(domain)
		}
		v.Set("risk.whitelisted_domains", domains)
	} else {
		v.Set("risk.whitelisted_domains", []string{})
	}

	return config.NewFromViper(v)
}
