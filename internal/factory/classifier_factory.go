package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/adapters/bedrock"
	"github.com/phishguard/phish-guard/internal/adapters/gemini"
	"github.com/phishguard/phish-guard/internal/adapters/openai"
	"github.com/phishguard/phish-guard/internal/config"
	"github.com/phishguard/phish-guard/internal/core"
)

// ClassifierFactory creates chunk scoring backends
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateChunkScorer creates a chunk scoring backend based on the
// configuration. Returns (nil, nil) when the classifier backend is not
// enabled; the text analyzer then runs in heuristic mode.
func (f *ClassifierFactory) CreateChunkScorer() (core.ChunkScorer, error) {
	classifierCfg := f.cfg.GetClassifier()
	if !classifierCfg.Enabled {
		return nil, nil
	}

	switch classifierCfg.Provider {
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		return openai.NewClassifier(
			openaiCfg.APIKey,
			openaiCfg.ModelName,
			openaiCfg.MaxTokens,
			openaiCfg.Temperature,
			openaiCfg.TopP,
			f.logger,
		)
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		return gemini.NewClassifier(
			geminiCfg.APIKey,
			geminiCfg.ModelName,
			geminiCfg.MaxTokens,
			geminiCfg.Temperature,
			geminiCfg.TopP,
			f.logger,
		)
	case "bedrock":
		bedrockCfg := f.cfg.GetBedrock()
		return bedrock.NewClassifier(
			bedrockCfg.Region,
			bedrockCfg.ModelID,
			bedrockCfg.MaxTokens,
			bedrockCfg.Temperature,
			bedrockCfg.TopP,
			f.logger,
		)
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", classifierCfg.Provider)
	}
}
