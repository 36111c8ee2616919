package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Kavirubc/skinchat/internal/chat"
	"github.com/Kavirubc/skinchat/internal/config"
	"github.com/Kavirubc/skinchat/internal/metrics"
	"github.com/Kavirubc/skinchat/pkg/models"
)

// loadConfig resolves the --config flag, falling back to defaults plus environment
func loadConfig() (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newAssembler loads config and builds the assembler, surfacing ConfigurationError as-is
func newAssembler(m metrics.ChatMetrics) (*chat.Assembler, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	assembler, err := chat.New(cfg, m)
	if err != nil {
		return nil, nil, err
	}
	return assembler, cfg, nil
}

// loadHistory reads an optional --history file
func loadHistory(path string) (models.History, error) {
	if path == "" {
		return nil, nil
	}
	return models.LoadHistoryFile(path)
}

// withTimeout bounds a single provider call; zero means no deadline
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
