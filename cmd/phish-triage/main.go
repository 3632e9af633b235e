package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/phishguard/phish-guard/internal/adapters/filter"
	"github.com/phishguard/phish-guard/internal/core"
	"github.com/phishguard/phish-guard/internal/di"
	"github.com/phishguard/phish-guard/internal/ports"
	"github.com/phishguard/phish-guard/internal/utils"
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the triage
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run reads a single email, scores it, and prints the verdict
func run(
	logger *zap.Logger,
	flags *di.CLIFlags,
	emailFilter ports.EmailFilter,
	textProcessor *utils.TextProcessor,
	chunkScorer core.ChunkScorer,
) error {
	defer logger.Sync()

	// Read email from file or stdin
	var emailReader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	rawEmail, err := io.ReadAll(emailReader)
	if err != nil {
		logger.Fatal("Failed to read email", zap.Error(err))
	}

	payload, err := filter.BuildPayload(rawEmail, "", textProcessor)
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	verdict := emailFilter.ProcessEmail(context.Background(), payload)

	// Close the classifier backend if it holds resources
	if closer, ok := chunkScorer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier backend", zap.Error(err))
		}
	}

	// Exit non-zero for high-risk mail so shell pipelines can branch on it
	if verdict.RiskLevel == core.RiskHigh {
		os.Exit(2)
	}

	return nil
}
