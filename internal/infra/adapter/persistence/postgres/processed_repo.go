// Package postgres implements the processed-record store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/repository"
)

type ProcessedRepo struct{ db *sql.DB }

func NewProcessedRepo(db *sql.DB) repository.ProcessedRepository {
	return &ProcessedRepo{db: db}
}

// IsProcessed checks for an unexpired record under the URL's content key.
// Expired rows are invisible here even before the cleanup sweep removes them.
func (repo *ProcessedRepo) IsProcessed(ctx context.Context, url string) (bool, error) {
	const query = `
SELECT EXISTS (
  SELECT 1 FROM processed_items
  WHERE content_key = $1 AND expire_at > NOW()
)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, entity.ContentKey(url)).Scan(&exists); err != nil {
		return false, fmt.Errorf("IsProcessed: %w", err)
	}
	return exists, nil
}

// MarkProcessed upserts the record. Re-marking a key refreshes its metadata
// and pushes the expiry forward, so repeat processing is harmless.
func (repo *ProcessedRepo) MarkProcessed(ctx context.Context, url string, meta repository.ProcessedMeta) error {
	const query = `
INSERT INTO processed_items
  (content_key, url, title, source_name, source_kind, summary_generated, processed_at, expire_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (content_key) DO UPDATE SET
  title             = EXCLUDED.title,
  source_name       = EXCLUDED.source_name,
  source_kind       = EXCLUDED.source_kind,
  summary_generated = EXCLUDED.summary_generated,
  processed_at      = EXCLUDED.processed_at,
  expire_at         = EXCLUDED.expire_at`

	now := time.Now().UTC()
	_, err := repo.db.ExecContext(ctx, query,
		entity.ContentKey(url),
		url,
		meta.Title,
		meta.SourceName,
		string(meta.SourceKind),
		meta.SummaryGenerated,
		now,
		now.Add(entity.ProcessedRetention),
	)
	if err != nil {
		return fmt.Errorf("MarkProcessed: %w", err)
	}
	return nil
}

// BatchCheck resolves processed status for many URLs in one query. Unknown
// and expired keys come back false.
func (repo *ProcessedRepo) BatchCheck(ctx context.Context, urls []string) (map[string]bool, error) {
	result := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return result, nil
	}

	keyToURL := make(map[string]string, len(urls))
	placeholders := make([]string, 0, len(urls))
	args := make([]any, 0, len(urls))
	for i, url := range urls {
		key := entity.ContentKey(url)
		keyToURL[key] = url
		result[url] = false
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, key)
	}

	query := fmt.Sprintf(`
SELECT content_key FROM processed_items
WHERE content_key IN (%s) AND expire_at > NOW()`, strings.Join(placeholders, ", "))

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("BatchCheck: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("BatchCheck: Scan: %w", err)
		}
		if url, ok := keyToURL[key]; ok {
			result[url] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("BatchCheck: rows.Err: %w", err)
	}
	return result, nil
}

// CleanupExpired deletes rows past their expiry and returns the count.
func (repo *ProcessedRepo) CleanupExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM processed_items WHERE expire_at <= NOW()`
	res, err := repo.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("CleanupExpired: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("CleanupExpired: RowsAffected: %w", err)
	}
	return removed, nil
}
