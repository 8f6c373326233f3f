package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
)

var (
	// ErrDisabled is returned when the provider has no credentials configured
	ErrDisabled = errors.New("llm provider disabled")
	// ErrEmptyResponse is returned when the backend answered with no text
	ErrEmptyResponse = errors.New("llm returned empty response")
)

// Provider abstracts different LLM backends (OpenRouter, OpenAI, Claude, Gemini).
// Implementations hold only the shared transport and must be safe for concurrent use.
type Provider interface {
	// Name returns the provider name
	Name() string

	// IsEnabled returns whether the provider is configured with valid credentials
	IsEnabled() bool

	// Complete sends a single-turn prompt and returns the generated text
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

// CompletionRequest is one opaque, stateless call to the backend
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	TopP        float64
}

// Sampling holds the per-request nucleus sampling settings
type Sampling struct {
	Temperature float64
	TopP        float64
}

// LLM is what the agents depend on
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client binds a provider to sampling settings for the lifetime of one request.
// It keeps no conversation state between calls.
type Client struct {
	provider Provider
	sampling Sampling
	calls    atomic.Int64
}

// NewClient creates a request-scoped client
func NewClient(provider Provider, sampling Sampling) *Client {
	return &Client{
		provider: provider,
		sampling: sampling,
	}
}

// Generate renders nothing itself; prompt must already be the final instruction text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.provider == nil || !c.provider.IsEnabled() {
		return "", ErrDisabled
	}
	c.calls.Add(1)

	text, err := c.provider.Complete(ctx, &CompletionRequest{
		Prompt:      prompt,
		Temperature: c.sampling.Temperature,
		TopP:        c.sampling.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", c.provider.Name(), err)
	}
	if text == "" {
		log.Printf("[LLM] %s returned an empty completion", c.provider.Name())
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Calls returns how many completions this client issued
func (c *Client) Calls() int {
	return int(c.calls.Load())
}
