package types

import "time"

// Config represents the application configuration
type Config struct {
	Environment string         `yaml:"environment"`
	Server      ServerConfig   `yaml:"server"`
	LLM         LLMConfig      `yaml:"llm"`
	Pipeline    PipelineConfig `yaml:"pipeline"`
	Image       ImageConfig    `yaml:"image"`
	Music       MusicConfig    `yaml:"music"`
	Letters     LettersConfig  `yaml:"letters"`
	Sentry      SentryConfig   `yaml:"sentry"`
}

// ServerConfig defines the HTTP listener
type ServerConfig struct {
	Port      string  `yaml:"port"`
	BasePath  string  `yaml:"base_path"`  // e.g. "/llm"
	RateLimit float64 `yaml:"rate_limit"` // generation requests per second, 0 = unlimited
	RateBurst int     `yaml:"rate_burst"`
}

// LLMConfig defines which backend the agents talk to
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "openrouter", "openai", "anthropic", "google"
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`

	// Provider-specific configurations
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	Google     GoogleConfig     `yaml:"google"`
}

// OpenRouterConfig for the OpenAI-compatible OpenRouter gateway
type OpenRouterConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`    // e.g., "qwen/qwen3-235b-a22b:free"
	BaseURL string        `yaml:"base_url"` // defaults to https://openrouter.ai/api/v1
	Timeout time.Duration `yaml:"timeout"`
}

// OpenAIConfig for GPT models
type OpenAIConfig struct {
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`        // e.g., "gpt-4o"
	Organization string        `yaml:"organization"` // Optional
	Timeout      time.Duration `yaml:"timeout"`
}

// AnthropicConfig for Claude
type AnthropicConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// GoogleConfig for Gemini
type GoogleConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"` // e.g., "gemini-2.0-flash"
	Timeout time.Duration `yaml:"timeout"`
}

// PipelineConfig defines request-level behavior
type PipelineConfig struct {
	Timeout      time.Duration `yaml:"timeout"`       // 0 = no deadline beyond the caller's
	ImageSuffix  string        `yaml:"image_suffix"`  // appended to the summary before the image job
	DefaultMusic bool          `yaml:"default_music"` // used by the legacy GET route
}

// ImageConfig for the image job vendor
type ImageConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxAttempts  int           `yaml:"max_attempts"`
	Timeout      time.Duration `yaml:"timeout"`
}

// MusicConfig for the music job vendor
type MusicConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Tags         string        `yaml:"tags"` // genre/mood, tone is appended
	Timeout      time.Duration `yaml:"timeout"`
}

// LettersConfig for the external letter archive
type LettersConfig struct {
	BaseURL  string        `yaml:"base_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SentryConfig for error reporting
type SentryConfig struct {
	DSN string `yaml:"dsn"`
}

// Vendor and pipeline defaults
const (
	DefaultImageBaseURL      = "https://api.freepik.com/v1/ai/mystic"
	DefaultImagePollInterval = 5 * time.Second
	DefaultImageMaxAttempts  = 3
	DefaultMusicPollInterval = 60 * time.Second
	DefaultMusicTags         = "military song, soviet wartime ballad"
	DefaultImageSuffix       = " It all happened during WWII."
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel   = "qwen/qwen3-235b-a22b:free"
	DefaultTemperature       = 0.7
	DefaultTopP              = 0.8
	DefaultPort              = "8052"
	DefaultLetterCacheTTL    = 10 * time.Minute
	DefaultHTTPTimeout       = 30 * time.Second
)

// ApplyDefaults fills zero values with the vendor and pipeline defaults
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openrouter"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = DefaultTemperature
	}
	if c.LLM.TopP == 0 {
		c.LLM.TopP = DefaultTopP
	}
	if c.LLM.OpenRouter.BaseURL == "" {
		c.LLM.OpenRouter.BaseURL = DefaultOpenRouterBaseURL
	}
	if c.LLM.OpenRouter.Model == "" {
		c.LLM.OpenRouter.Model = DefaultOpenRouterModel
	}
	if c.Pipeline.ImageSuffix == "" {
		c.Pipeline.ImageSuffix = DefaultImageSuffix
	}
	if c.Image.BaseURL == "" {
		c.Image.BaseURL = DefaultImageBaseURL
	}
	if c.Image.PollInterval == 0 {
		c.Image.PollInterval = DefaultImagePollInterval
	}
	if c.Image.MaxAttempts == 0 {
		c.Image.MaxAttempts = DefaultImageMaxAttempts
	}
	if c.Image.Timeout == 0 {
		c.Image.Timeout = DefaultHTTPTimeout
	}
	if c.Music.PollInterval == 0 {
		c.Music.PollInterval = DefaultMusicPollInterval
	}
	if c.Music.Tags == "" {
		c.Music.Tags = DefaultMusicTags
	}
	if c.Music.Timeout == 0 {
		c.Music.Timeout = DefaultHTTPTimeout
	}
	if c.Letters.CacheTTL == 0 {
		c.Letters.CacheTTL = DefaultLetterCacheTTL
	}
	if c.Letters.Timeout == 0 {
		c.Letters.Timeout = DefaultHTTPTimeout
	}
}
