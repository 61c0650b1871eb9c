// Package config loads and validates the application configuration from
// environment variables and the feeds YAML file. Validation is fail-closed:
// a configuration that cannot deliver a digest aborts startup before any
// external call is made.
package config

import (
	"fmt"
	"os"
)

// LLM provider selection values for LLM_PROVIDER.
const (
	ProviderOpenRouter = "openrouter"
	ProviderClaude     = "claude"
	ProviderNoop       = "noop"
)

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// Provider selects the LLM backend: openrouter, claude, or noop.
	Provider string

	// OpenRouterAPIKey authenticates OpenRouter calls. Required when
	// Provider is openrouter.
	OpenRouterAPIKey string

	// AnthropicAPIKey authenticates direct Anthropic calls. Required when
	// Provider is claude.
	AnthropicAPIKey string

	// SlackWebhookURL receives the digest. Empty falls back to the noop
	// sink only when DryRun is set.
	SlackWebhookURL string

	// DryRun disables delivery and runs the pipeline against the noop sink.
	DryRun bool

	// FeedsPath points at the feeds YAML file. Empty uses the built-in
	// feed list.
	FeedsPath string

	// LLMCallsPerMinute is the OpenRouter/Anthropic rate limit budget.
	LLMCallsPerMinute int
}

// Load reads the application configuration from the environment and
// validates it.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Provider:          GetEnvString("LLM_PROVIDER", ProviderOpenRouter),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		SlackWebhookURL:   os.Getenv("SLACK_WEBHOOK_URL"),
		DryRun:            GetEnvBool("DRY_RUN", false),
		FeedsPath:         os.Getenv("FEEDS_FILE"),
		LLMCallsPerMinute: GetEnvInt("LLM_CALLS_PER_MINUTE", 30),
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate enforces the settings required for a deliverable digest run.
func (c AppConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required when LLM_PROVIDER is %s", ProviderOpenRouter)
		}
	case ProviderClaude:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER is %s", ProviderClaude)
		}
	case ProviderNoop:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (want %s, %s, or %s)",
			c.Provider, ProviderOpenRouter, ProviderClaude, ProviderNoop)
	}

	if c.SlackWebhookURL == "" && !c.DryRun {
		return fmt.Errorf("SLACK_WEBHOOK_URL is required unless DRY_RUN is set")
	}

	if c.LLMCallsPerMinute <= 0 {
		return fmt.Errorf("LLM_CALLS_PER_MINUTE must be positive, got %d", c.LLMCallsPerMinute)
	}

	return nil
}
