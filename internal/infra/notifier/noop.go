package notifier

import (
	"context"
	"log/slog"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
)

// NoOp logs the digest instead of delivering it. Used when no webhook is
// configured, so the pipeline can run end to end in development.
type NoOp struct{}

// NewNoOp creates a NoOp sink.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Emit logs a summary of the batch and discards it.
func (n *NoOp) Emit(_ context.Context, batch *entity.DigestBatch) error {
	slog.Info("noop sink: digest discarded",
		slog.Int("news", batch.Stats.NewsCount),
		slog.Int("podcasts", batch.Stats.PodcastCount),
		slog.Bool("has_tip", batch.Tip != ""),
		slog.Bool("has_tool", batch.Tool != nil),
		slog.Int("errors", batch.Stats.ErrorCount))
	return nil
}
