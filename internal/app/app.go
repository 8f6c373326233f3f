// Package app loads configuration and wires the pipeline shared by the binaries.
package app

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zhe.chen/agent-letter-story/internal/jobs"
	"github.com/zhe.chen/agent-letter-story/internal/letters"
	"github.com/zhe.chen/agent-letter-story/internal/llm"
	"github.com/zhe.chen/agent-letter-story/internal/llm/providers"
	"github.com/zhe.chen/agent-letter-story/internal/namer"
	"github.com/zhe.chen/agent-letter-story/internal/pipeline"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

const sentryFlushTimeout = 2 * time.Second

// LoadEnv reads .env when present
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// LoadConfig reads the YAML config, expands environment variables and applies defaults
func LoadConfig(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the config file
	expandedData := os.ExpandEnv(string(data))

	var config types.Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyDefaults()
	return &config, nil
}

// InitSentry enables error reporting when a DSN is configured. The returned func
// flushes pending events.
func InitSentry(cfg *types.Config, release string) (func(), error) {
	if cfg.Sentry.DSN == "" {
		log.Println("[Sentry] no DSN configured, error reporting disabled")
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		AttachStacktrace: true,
		TracesSampleRate: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	log.Printf("[Sentry] initialized (environment: %s)", cfg.Environment)
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

// Fatalf returns a log.Fatalf replacement that reports the message to Sentry and
// flushes before exiting. os.Exit skips deferred calls, so a deferred flush never runs.
func Fatalf(flush func()) func(format string, args ...any) {
	return fatalf(sentry.CurrentHub(), flush, log.Fatalf)
}

func fatalf(hub *sentry.Hub, flush func(), exit func(string, ...any)) func(string, ...any) {
	return func(format string, args ...any) {
		hub.CaptureMessage(fmt.Sprintf(format, args...))
		flush()
		exit(format, args...)
	}
}

// BuildPipeline creates the LLM provider and vendor clients and wires the pipeline
func BuildPipeline(cfg *types.Config) (*pipeline.Pipeline, error) {
	log.Printf("[AI Agent] Initializing LLM provider: %s...", cfg.LLM.Provider)
	provider, err := providers.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	if provider.IsEnabled() {
		log.Printf("[AI Agent] %s enabled", provider.Name())
	} else {
		log.Printf("[AI Agent] %s disabled (no API key), generation will be unavailable", provider.Name())
	}

	sampling := llm.Sampling{Temperature: cfg.LLM.Temperature, TopP: cfg.LLM.TopP}
	musicClient := jobs.NewMusicClient(cfg.Music)

	deps := pipeline.Deps{
		Agents:    pipeline.NewAgentFactory(provider, sampling),
		Images:    jobs.NewImageClient(cfg.Image),
		Namer:     namer.Default(),
		MusicTags: musicClient.Tags,
	}
	if cfg.Music.BaseURL != "" {
		deps.Music = musicClient
	} else {
		log.Println("[Music] no base_url configured, music requests will fail")
	}
	if cfg.Letters.BaseURL != "" {
		deps.Letters = letters.NewClient(cfg.Letters)
	}

	return pipeline.NewPipeline(cfg.Pipeline, deps), nil
}
