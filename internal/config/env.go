package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Env helpers with fail-open defaults: a malformed value logs a warning
// and falls back rather than crashing the worker. Required settings are
// enforced by Load, not here.

// GetEnvString returns the environment variable value or the default when
// unset or empty.
func GetEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt returns the environment variable parsed as an integer, or the
// default on parse failure.
func GetEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer environment variable, using default",
			slog.String("key", key),
			slog.String("value", v),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return parsed
}

// GetEnvBool returns the environment variable parsed as a boolean, or the
// default on parse failure. Accepts the strconv.ParseBool forms.
func GetEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean environment variable, using default",
			slog.String("key", key),
			slog.String("value", v),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
	return parsed
}

// GetEnvDuration returns the environment variable parsed as a duration
// ("30s", "5m"), or the default on parse failure.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration environment variable, using default",
			slog.String("key", key),
			slog.String("value", v),
			slog.Duration("default", defaultValue))
		return defaultValue
	}
	return parsed
}
