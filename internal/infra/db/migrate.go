package db

import (
	"database/sql"
)

// MigrateUp creates the analysis store schema. Statements are idempotent so
// migration runs safely on every startup.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS analyzed_articles (
    id           BIGSERIAL PRIMARY KEY,
    article_id   TEXT NOT NULL UNIQUE,
    title        TEXT NOT NULL,
    url          TEXT NOT NULL,
    provider     TEXT NOT NULL,
    summary      TEXT NOT NULL DEFAULT '',
    sentiment    TEXT NOT NULL DEFAULT 'neutral',
    topics       JSONB NOT NULL DEFAULT '[]',
    published_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// ORDER BY created_at DESC drives the list endpoint.
		`CREATE INDEX IF NOT EXISTS idx_analyzed_articles_created_at ON analyzed_articles(created_at DESC)`,
		// Stats endpoint groups by these columns.
		`CREATE INDEX IF NOT EXISTS idx_analyzed_articles_provider ON analyzed_articles(provider)`,
		`CREATE INDEX IF NOT EXISTS idx_analyzed_articles_sentiment ON analyzed_articles(sentiment)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Sentiment values come from the analyzer prompt; the constraint catches
	// drift between prompt and schema. Ignored when it already exists.
	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_sentiment'
    ) THEN
        ALTER TABLE analyzed_articles ADD CONSTRAINT chk_sentiment
        CHECK (sentiment IN ('positive', 'negative', 'neutral', 'mixed'));
    END IF;
END $$;
`)

	return nil
}

// MigrateDown drops the analysis store schema. Use with caution: this deletes
// all stored analyses.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_analyzed_articles_created_at`,
		`DROP INDEX IF EXISTS idx_analyzed_articles_provider`,
		`DROP INDEX IF EXISTS idx_analyzed_articles_sentiment`,
		`DROP TABLE IF EXISTS analyzed_articles CASCADE`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
