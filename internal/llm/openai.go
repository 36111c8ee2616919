package llm

import (
	"context"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider implements Provider using OpenAI's chat completions API
type OpenAIProvider struct {
	client *openai.Client
	model  string
	opts   GenerationOptions
}

// NewOpenAIProvider creates a new OpenAI provider.
// baseURL may point at any OpenAI-compatible endpoint; empty uses api.openai.com.
func NewOpenAIProvider(apiKey, model, baseURL string, opts GenerationOptions) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		opts:   opts,
	}, nil
}

// Complete sends the prompt as a single user message
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: p.opts.MaxOutputTokens,
	}
	if t := p.opts.Temperature; t != nil {
		req.Temperature = *t
		if req.Temperature == 0 {
			// go-openai drops a zero temperature (omitempty)
			req.Temperature = math.SmallestNonzeroFloat32
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("completion contained no text")
	}

	return content, nil
}

// Name returns the provider identifier
func (p *OpenAIProvider) Name() string { return "openai" }

// Model returns the bound model identifier
func (p *OpenAIProvider) Model() string { return p.model }

// Close releases resources
func (p *OpenAIProvider) Close() error {
	return nil
}
