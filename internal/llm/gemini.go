package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider implements Provider using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
	model  string
	opts   GenerationOptions
}

// NewGeminiProvider creates a new Gemini text-generation provider.
// baseURL overrides the Gemini API endpoint (proxies, tests); empty uses the default.
func NewGeminiProvider(apiKey, model, baseURL string, opts GenerationOptions) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiProvider{
		client: client,
		model:  model,
		opts:   opts,
	}, nil
}

// Complete generates a completion for the given prompt
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if p.opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = genai.Ptr(int32(p.opts.MaxOutputTokens))
	}
	if p.opts.Temperature != nil {
		config.Temperature = genai.Ptr(*p.opts.Temperature)
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return geminiText(result)
}

// geminiText joins the text parts of the first candidate
func geminiText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		if candidate != nil && candidate.FinishReason != "" {
			return "", fmt.Errorf("no content generated (finish reason: %s)", candidate.FinishReason)
		}
		return "", fmt.Errorf("no content generated")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("response contained no text")
	}

	return b.String(), nil
}

// Name returns the provider identifier
func (p *GeminiProvider) Name() string { return "gemini" }

// Model returns the bound model identifier
func (p *GeminiProvider) Model() string { return p.model }

// Close releases resources
func (p *GeminiProvider) Close() error {
	return nil
}
