// Package worker holds the scheduling and serving side of the digest
// worker: its configuration, health endpoints, and run metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/config"
)

// Config controls the worker's schedule and servers.
type Config struct {
	// CronSchedule is a standard 5-field cron expression.
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// RunTimeout bounds a single pipeline run.
	RunTimeout time.Duration

	// RunOnStart triggers a pipeline run immediately at startup in
	// addition to the schedule.
	RunOnStart bool

	// HealthPort serves /health and /health/ready.
	HealthPort int

	// MetricsPort serves /metrics.
	MetricsPort int
}

// DefaultConfig returns the production schedule: weekday mornings at
// 8 AM Mountain time, with a run budget under typical serverless caps.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "0 8 * * 1-5",
		Timezone:     "America/Denver",
		RunTimeout:   9 * time.Minute,
		RunOnStart:   false,
		HealthPort:   9091,
		MetricsPort:  9090,
	}
}

// Validate checks every field and aggregates the failures.
func (c *Config) Validate() error {
	var errs []error

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule %q: %w", c.CronSchedule, err))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", c.Timezone, err))
	}
	if c.RunTimeout <= 0 {
		errs = append(errs, fmt.Errorf("run timeout must be positive, got %v", c.RunTimeout))
	}
	if c.HealthPort < 1024 || c.HealthPort > 65535 {
		errs = append(errs, fmt.Errorf("health port %d out of range 1024-65535", c.HealthPort))
	}
	if c.MetricsPort < 1024 || c.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("metrics port %d out of range 1024-65535", c.MetricsPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("worker config validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker settings with fail-open fallback: an
// invalid value logs a warning and keeps the default, so a typo in a
// schedule cannot take the worker down.
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()

	candidate := Config{
		CronSchedule: config.GetEnvString("CRON_SCHEDULE", cfg.CronSchedule),
		Timezone:     config.GetEnvString("WORKER_TIMEZONE", cfg.Timezone),
		RunTimeout:   config.GetEnvDuration("RUN_TIMEOUT", cfg.RunTimeout),
		RunOnStart:   config.GetEnvBool("RUN_ON_START", cfg.RunOnStart),
		HealthPort:   config.GetEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort),
		MetricsPort:  config.GetEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort),
	}

	if err := candidate.Validate(); err != nil {
		logger.Warn("invalid worker configuration, using defaults",
			slog.Any("error", err))
		return cfg
	}
	return candidate
}

// Location resolves the configured timezone. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
