// Package summarizer provides the LLM clients that turn collected content
// into digest bullets, tips, and tool spotlights. It includes an OpenRouter
// adapter (go-openai with a custom base URL), a Claude adapter, a NoOp for
// development, and a Guarded decorator that composes rate limiting, circuit
// breaking, and retry around any of them.
package summarizer

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	defaultModel     = "anthropic/claude-3.5-haiku"
	defaultMaxTokens = 1024

	// Input truncation keeps prompts inside model context comfortably.
	defaultArticleLimit = 4000
	defaultPodcastLimit = 3000

	defaultBulletCount = 3
)

// Config holds LLM client settings.
type Config struct {
	// BaseURL is the OpenAI-compatible API endpoint.
	BaseURL string

	// Model is the model identifier sent with every request.
	Model string

	// MaxTokens caps the response size.
	MaxTokens int

	// Timeout is the per-call deadline.
	Timeout time.Duration

	// ArticleCharLimit truncates article text before prompting.
	ArticleCharLimit int

	// PodcastCharLimit truncates episode notes before prompting.
	PodcastCharLimit int

	// BulletCount is how many summary bullets to request per item.
	BulletCount int
}

// DefaultConfig returns production defaults for OpenRouter.
func DefaultConfig() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		Model:            defaultModel,
		MaxTokens:        defaultMaxTokens,
		Timeout:          60 * time.Second,
		ArticleCharLimit: defaultArticleLimit,
		PodcastCharLimit: defaultPodcastLimit,
		BulletCount:      defaultBulletCount,
	}
}

// LoadConfig builds a Config from environment overrides on the defaults.
// Invalid numeric values are rejected rather than silently defaulted.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLM_MAX_TOKENS %q: %w", v, err)
		}
		cfg.MaxTokens = parsed
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLM_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = parsed
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that would produce broken prompts or
// unbounded calls.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.ArticleCharLimit <= 0 || c.PodcastCharLimit <= 0 {
		return fmt.Errorf("char limits must be positive")
	}
	if c.BulletCount <= 0 {
		return fmt.Errorf("bullet count must be positive, got %d", c.BulletCount)
	}
	return nil
}
