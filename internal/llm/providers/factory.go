// Package providers selects the configured LLM backend.
package providers

import (
	"fmt"
	"strings"

	"github.com/zhe.chen/agent-letter-story/internal/llm"
	"github.com/zhe.chen/agent-letter-story/internal/llm/providers/claude"
	"github.com/zhe.chen/agent-letter-story/internal/llm/providers/gemini"
	"github.com/zhe.chen/agent-letter-story/internal/llm/providers/openai"
	"github.com/zhe.chen/agent-letter-story/internal/llm/providers/openrouter"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// New creates the appropriate LLM provider based on configuration
func New(config types.LLMConfig) (llm.Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openrouter":
		return openrouter.NewProvider(config.OpenRouter)

	case "openai":
		return openai.NewProvider(config.OpenAI)

	case "anthropic", "claude":
		return claude.NewProvider(config.Anthropic)

	case "google", "gemini":
		return gemini.NewProvider(config.Google)

	case "":
		return nil, fmt.Errorf("llm.provider not specified in config")

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openrouter, openai, anthropic, google)", config.Provider)
	}
}
