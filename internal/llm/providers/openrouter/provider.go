package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/zhe.chen/agent-letter-story/internal/llm"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

const (
	// OpenRouter headers
	httpReferer = "https://github.com/zhe.chen/agent-letter-story"
	appTitle    = "agent-letter-story"
)

// Provider implements llm.Provider for OpenRouter
type Provider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	enabled bool
}

// NewProvider creates a new OpenRouter provider
// OpenRouter uses OpenAI-compatible API with custom base URL
func NewProvider(config types.OpenRouterConfig) (*Provider, error) {
	if config.APIKey == "" {
		return &Provider{enabled: false}, nil
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL
	if clientConfig.BaseURL == "" {
		clientConfig.BaseURL = types.DefaultOpenRouterBaseURL
	}

	// Create custom HTTP client with OpenRouter-specific headers
	clientConfig.HTTPClient = &http.Client{
		Transport: &headerTransport{
			Base: http.DefaultTransport,
			Headers: map[string]string{
				"HTTP-Referer": httpReferer,
				"X-Title":      appTitle,
			},
		},
	}

	return &Provider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   config.Model,
		timeout: config.Timeout,
		enabled: true,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "openrouter"
}

// IsEnabled returns whether the provider is configured
func (p *Provider) IsEnabled() bool {
	return p.enabled
}

// Complete issues one chat completion
func (p *Provider) Complete(ctx context.Context, req *llm.CompletionRequest) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(req.Temperature),
		TopP:        float32(req.TopP),
	})
	if err != nil {
		return "", fmt.Errorf("OpenRouter API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// headerTransport adds custom headers to HTTP requests
type headerTransport struct {
	Base    http.RoundTripper
	Headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request
	req = req.Clone(req.Context())
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Base.RoundTrip(req)
}
