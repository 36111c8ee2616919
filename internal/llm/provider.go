package llm

import (
	"context"
	"fmt"

	"github.com/Kavirubc/skinchat/internal/config"
)

// Provider defines the interface for single-prompt text generation
type Provider interface {
	// Complete sends prompt verbatim to the model and returns the generated text
	Complete(ctx context.Context, prompt string) (string, error)
	// Name returns the provider identifier ("gemini", "openai")
	Name() string
	// Model returns the model identifier the provider is bound to
	Model() string
	Close() error
}

// GenerationOptions contains sampling parameters applied to every request
type GenerationOptions struct {
	MaxOutputTokens int
	// Temperature is sent only when non-nil, so an explicit 0 reaches the provider
	Temperature *float32
}

// NewProvider creates the provider named by cfg.Provider
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	opts := GenerationOptions{
		MaxOutputTokens: cfg.MaxOutputTokens,
		Temperature:     cfg.Temperature,
	}

	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg.APIKey, cfg.Model, cfg.BaseURL, opts)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL, opts)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
