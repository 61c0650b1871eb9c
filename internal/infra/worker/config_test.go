package worker

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "0 8 * * 1-5", cfg.CronSchedule)
	assert.Equal(t, "America/Denver", cfg.Timezone)
	assert.Equal(t, 9*time.Minute, cfg.RunTimeout)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad cron", func(c *Config) { c.CronSchedule = "not a schedule" }},
		{"six fields", func(c *Config) { c.CronSchedule = "0 0 8 * * 1-5" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"zero timeout", func(c *Config) { c.RunTimeout = 0 }},
		{"privileged health port", func(c *Config) { c.HealthPort = 80 }},
		{"metrics port too high", func(c *Config) { c.MetricsPort = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "30 6 * * *")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("RUN_TIMEOUT", "5m")
	t.Setenv("RUN_ON_START", "true")

	cfg := LoadConfigFromEnv(slog.Default())
	assert.Equal(t, "30 6 * * *", cfg.CronSchedule)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 5*time.Minute, cfg.RunTimeout)
	assert.True(t, cfg.RunOnStart)
}

func TestLoadConfigFromEnv_InvalidFallsBackToDefaults(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "whenever")

	cfg := LoadConfigFromEnv(slog.Default())
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_Location(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "America/Denver", cfg.Location().String())

	cfg.Timezone = "Nowhere/Invalid"
	assert.Equal(t, time.UTC, cfg.Location())
}
