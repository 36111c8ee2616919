package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/Kavirubc/skinchat/internal/config"
	"github.com/Kavirubc/skinchat/internal/llm"
	"github.com/Kavirubc/skinchat/internal/logging"
	"github.com/Kavirubc/skinchat/internal/metrics"
	"github.com/Kavirubc/skinchat/pkg/models"
)

const component = "chat"

// Options configures an Assembler built around an existing provider
type Options struct {
	// SystemPrompt defaults to DefaultSystemPrompt when empty
	SystemPrompt string
	Metrics      metrics.ChatMetrics
}

// Assembler renders prompts from conversation state and obtains replies.
// It holds no per-call state, so one instance may be shared by concurrent callers.
type Assembler struct {
	system   string
	provider llm.Provider
	metrics  metrics.ChatMetrics
}

// New builds an Assembler from cfg. A missing credential or an unusable
// provider configuration is reported as *ConfigurationError.
func New(cfg *config.Config, m metrics.ChatMetrics) (*Assembler, error) {
	if cfg.LLM.APIKey == "" {
		return nil, &ConfigurationError{
			Field:   "llm.api_key",
			Message: fmt.Sprintf("API key not set (configure llm.api_key or %s)", config.CredentialEnv(cfg.LLM.Provider)),
		}
	}

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return nil, &ConfigurationError{
			Field:   "llm.provider",
			Message: "failed to create provider",
			Err:     err,
		}
	}

	return NewWithProvider(provider, Options{
		SystemPrompt: cfg.Chat.SystemPrompt,
		Metrics:      m,
	}), nil
}

// NewWithProvider builds an Assembler around an already constructed provider
func NewWithProvider(provider llm.Provider, opts Options) *Assembler {
	m := opts.Metrics
	if m == nil {
		m = metrics.Noop{}
	}
	return &Assembler{
		system:   systemPromptOrDefault(opts.SystemPrompt),
		provider: provider,
		metrics:  m,
	}
}

// SystemPrompt returns the instructions placed at the top of every prompt
func (a *Assembler) SystemPrompt() string {
	return a.system
}

// BuildPrompt renders the prompt Respond would send for the same inputs
func (a *Assembler) BuildPrompt(message string, history models.History) string {
	return RenderPrompt(a.system, history, message)
}

// Respond sends one rendered prompt to the provider and returns its text unchanged.
// Any provider failure is returned as *ProviderError; nothing is retried.
func (a *Assembler) Respond(ctx context.Context, message string, history models.History) (string, error) {
	requestID := RequestID(ctx)
	prompt := a.BuildPrompt(message, history)

	start := time.Now()
	reply, err := a.provider.Complete(ctx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		a.metrics.ObserveReply(a.provider.Name(), "error", elapsed.Seconds())
		logging.Error(component, "error generating chat response",
			"request_id", requestID,
			"provider", a.provider.Name(),
			"model", a.provider.Model(),
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return "", &ProviderError{
			Provider: a.provider.Name(),
			Model:    a.provider.Model(),
			Err:      err,
		}
	}

	a.metrics.ObserveReply(a.provider.Name(), "ok", elapsed.Seconds())
	logging.Info(component, "chat response generated",
		"request_id", requestID,
		"provider", a.provider.Name(),
		"model", a.provider.Model(),
		"turns", len(history.Last(HistoryWindow)),
		"prompt_chars", len(prompt),
		"duration_ms", elapsed.Milliseconds(),
	)
	return reply, nil
}

// Close releases the underlying provider
func (a *Assembler) Close() error {
	return a.provider.Close()
}
