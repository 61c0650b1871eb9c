package db

import "database/sql"

// MigrateUp creates the processed-record schema. Idempotent; every
// statement tolerates an existing object.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS processed_items (
    content_key       CHAR(64) PRIMARY KEY,
    url               TEXT NOT NULL,
    title             TEXT,
    source_name       TEXT,
    source_kind       VARCHAR(10) NOT NULL DEFAULT 'news',
    summary_generated BOOLEAN NOT NULL DEFAULT FALSE,
    processed_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    expire_at         TIMESTAMPTZ NOT NULL
)`); err != nil {
		return err
	}

	indexes := []string{
		// Expiry filter runs on every lookup and in the cleanup sweep.
		`CREATE INDEX IF NOT EXISTS idx_processed_items_expire_at ON processed_items(expire_at)`,
		// Per-kind stats queries.
		`CREATE INDEX IF NOT EXISTS idx_processed_items_source_kind ON processed_items(source_kind)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Kind constraint added separately so older tables pick it up too.
	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_processed_source_kind'
    ) THEN
        ALTER TABLE processed_items ADD CONSTRAINT chk_processed_source_kind
        CHECK (source_kind IN ('news', 'podcast'));
    END IF;
END $$;
`)

	return nil
}

// MigrateDown drops the processed-record schema. Deletes all dedup state;
// the next run will re-summarize anything still in the feed windows.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_processed_items_expire_at`,
		`DROP INDEX IF EXISTS idx_processed_items_source_kind`,
		`DROP TABLE IF EXISTS processed_items`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
