package repository

import (
	"context"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
)

// ProcessedMeta carries the item metadata stored alongside a processed-record
// mark. The content key is derived from the URL, never passed in.
type ProcessedMeta struct {
	Title            string
	SourceName       string
	SourceKind       entity.SourceKind
	SummaryGenerated bool
}

type ProcessedRepository interface {
	// IsProcessed reports whether the URL has an unexpired processed record.
	IsProcessed(ctx context.Context, url string) (bool, error)
	// MarkProcessed records the URL as processed. Marking an already-marked
	// URL is not an error; the existing record is refreshed.
	MarkProcessed(ctx context.Context, url string, meta ProcessedMeta) error
	// BatchCheck resolves processed status for many URLs in one round trip.
	// The result maps each input URL to its status.
	BatchCheck(ctx context.Context, urls []string) (map[string]bool, error)
	// CleanupExpired deletes records past their expiry and returns the count.
	CleanupExpired(ctx context.Context) (int64, error)
}
