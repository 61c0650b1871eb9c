package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level "+tt.value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.value)
			assert.Equal(t, tt.want, levelFromEnv())
		})
	}
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger())
	assert.NotNil(t, NewTextLogger())
}

func TestWithRunID(t *testing.T) {
	base := slog.Default()
	assert.Same(t, base, WithRunID(base, ""))
	assert.NotSame(t, base, WithRunID(base, "run-1"))
}

func TestLoggerContext(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, slog.Default(), FromContext(ctx))

	logger := NewTextLogger()
	ctx = WithLogger(ctx, logger)
	assert.Same(t, logger, FromContext(ctx))
}
