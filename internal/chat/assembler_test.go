package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Kavirubc/skinchat/internal/config"
	"github.com/Kavirubc/skinchat/pkg/models"
)

// fakeProvider records every prompt it receives
type fakeProvider struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }
func (f *fakeProvider) Close() error  { return nil }

type recordingMetrics struct {
	statuses []string
}

func (r *recordingMetrics) ObserveReply(provider, status string, durationSeconds float64) {
	r.statuses = append(r.statuses, status)
}

func TestRenderPrompt_EmptyHistory(t *testing.T) {
	got := RenderPrompt("SYS", nil, "hello")
	if got != "SYS\nUser: hello" {
		t.Errorf("RenderPrompt() = %q, want %q", got, "SYS\nUser: hello")
	}

	if got := RenderPrompt("SYS", models.History{}, ""); got != "SYS\nUser: " {
		t.Errorf("RenderPrompt() with empty message = %q", got)
	}
}

func TestRenderPrompt_Lines(t *testing.T) {
	history := models.History{models.UserTurn("A"), models.AssistantTurn("B")}

	got := strings.Split(RenderPrompt("SYS", history, "C"), "\n")
	want := []string{"SYS", "User: A", "Assistant: B", "User: C"}

	if len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderPrompt_TruncatesHistory(t *testing.T) {
	var history models.History
	for i := 0; i < 8; i++ {
		if i%2 == 0 {
			history = append(history, models.UserTurn(string(rune('a'+i))))
		} else {
			history = append(history, models.AssistantTurn(string(rune('a'+i))))
		}
	}

	got := RenderPrompt("SYS", history, "next")
	want := "SYS\nAssistant: d\nUser: e\nAssistant: f\nUser: g\nAssistant: h\nUser: next"
	if got != want {
		t.Errorf("RenderPrompt() = %q, want %q", got, want)
	}
	if len(history) != 8 {
		t.Errorf("history was mutated: len = %d", len(history))
	}
}

func TestRenderPrompt_Deterministic(t *testing.T) {
	history := models.History{models.UserTurn("My skin is dry"), models.AssistantTurn("Use a moisturizer")}

	first := RenderPrompt(DefaultSystemPrompt, history, "Which one?")
	second := RenderPrompt(DefaultSystemPrompt, history, "Which one?")
	if first != second {
		t.Error("RenderPrompt() is not deterministic")
	}
}

func TestNew_MissingCredential(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{Provider: "gemini"}}

	a, err := New(cfg, nil)
	if err == nil {
		t.Fatal("New() without credential should fail")
	}
	if a != nil {
		t.Error("New() should not return an assembler on failure")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("New() error = %T, want *ConfigurationError", err)
	}
	if cfgErr.Field != "llm.api_key" {
		t.Errorf("Field = %q, want llm.api_key", cfgErr.Field)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{Provider: "claude", APIKey: "key"}}

	_, err := New(cfg, nil)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("New() error = %v, want *ConfigurationError", err)
	}
}

func TestNew_OpenAI(t *testing.T) {
	cfg := &config.Config{
		LLM:  config.LLMConfig{Provider: "openai", APIKey: "sk-test"},
		Chat: config.ChatConfig{SystemPrompt: "custom"},
	}

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if a.SystemPrompt() != "custom" {
		t.Errorf("SystemPrompt() = %q, want custom", a.SystemPrompt())
	}
}

func TestSystemPromptFor(t *testing.T) {
	if got := SystemPromptFor(&config.Config{}); got != DefaultSystemPrompt {
		t.Error("SystemPromptFor() without override should return DefaultSystemPrompt")
	}

	cfg := &config.Config{Chat: config.ChatConfig{SystemPrompt: "custom"}}
	if got := SystemPromptFor(cfg); got != "custom" {
		t.Errorf("SystemPromptFor() = %q, want custom", got)
	}

	a := NewWithProvider(&fakeProvider{}, Options{SystemPrompt: cfg.Chat.SystemPrompt})
	if a.SystemPrompt() != SystemPromptFor(cfg) {
		t.Error("assembler and SystemPromptFor disagree on the system prompt")
	}
	if NewWithProvider(&fakeProvider{}, Options{}).SystemPrompt() != SystemPromptFor(&config.Config{}) {
		t.Error("assembler and SystemPromptFor disagree on the default system prompt")
	}
}

func TestRespond_EndToEnd(t *testing.T) {
	provider := &fakeProvider{reply: "Use a gel cleanser twice daily."}
	m := &recordingMetrics{}
	a := NewWithProvider(provider, Options{Metrics: m})

	msg := "My skin is oily, what routine should I follow?"
	got, err := a.Respond(context.Background(), msg, nil)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got != provider.reply {
		t.Errorf("Respond() = %q, want %q", got, provider.reply)
	}

	if len(provider.prompts) != 1 {
		t.Fatalf("provider called %d times, want 1", len(provider.prompts))
	}
	prompt := provider.prompts[0]
	if !strings.HasPrefix(prompt, DefaultSystemPrompt) {
		t.Error("prompt does not begin with the system prompt")
	}
	if !strings.HasSuffix(prompt, "\nUser: "+msg) {
		t.Errorf("prompt suffix = %q", prompt[len(prompt)-60:])
	}
	if prompt != DefaultSystemPrompt+"\nUser: "+msg {
		t.Error("prompt with empty history should be system prompt plus the user line")
	}

	if len(m.statuses) != 1 || m.statuses[0] != "ok" {
		t.Errorf("metrics statuses = %v, want [ok]", m.statuses)
	}
}

func TestRespond_PromptsAreIdentical(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	a := NewWithProvider(provider, Options{SystemPrompt: "SYS"})
	history := models.History{models.UserTurn("A"), models.AssistantTurn("B")}

	for i := 0; i < 2; i++ {
		if _, err := a.Respond(context.Background(), "again", history); err != nil {
			t.Fatalf("Respond() error = %v", err)
		}
	}

	if provider.prompts[0] != provider.prompts[1] {
		t.Errorf("prompts differ: %q vs %q", provider.prompts[0], provider.prompts[1])
	}
	if provider.prompts[0] != a.BuildPrompt("again", history) {
		t.Error("BuildPrompt() does not match the prompt sent")
	}
}

func TestRespond_ProviderError(t *testing.T) {
	cause := errors.New("quota exceeded")
	provider := &fakeProvider{err: cause}
	m := &recordingMetrics{}
	a := NewWithProvider(provider, Options{Metrics: m})

	_, err := a.Respond(context.Background(), "hi", nil)
	if err == nil {
		t.Fatal("Respond() should fail when the provider fails")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Respond() error = %T, want *ProviderError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ProviderError should wrap the underlying cause")
	}
	if provErr.Provider != "fake" || provErr.Model != "fake-model" {
		t.Errorf("ProviderError = %+v", provErr)
	}

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		t.Error("provider failure must not surface as ConfigurationError")
	}

	if len(provider.prompts) != 1 {
		t.Errorf("provider called %d times, want exactly 1 (no retry)", len(provider.prompts))
	}
	if len(m.statuses) != 1 || m.statuses[0] != "error" {
		t.Errorf("metrics statuses = %v, want [error]", m.statuses)
	}
}

func TestRespond_ConcurrentCallers(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	a := NewWithProvider(provider, Options{SystemPrompt: "SYS"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = a.Respond(context.Background(), "hi", models.History{models.UserTurn("x")})
		}()
	}
	wg.Wait()

	if len(provider.prompts) != 10 {
		t.Fatalf("provider called %d times, want 10", len(provider.prompts))
	}
	for _, p := range provider.prompts {
		if p != "SYS\nUser: x\nUser: hi" {
			t.Errorf("prompt = %q", p)
		}
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("RequestID() = %q, want req-1", got)
	}
	if got := RequestID(context.Background()); len(got) != 36 {
		t.Errorf("RequestID() without id = %q, want a fresh uuid", got)
	}
}
