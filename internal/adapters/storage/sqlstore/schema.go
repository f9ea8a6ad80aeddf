package sqlstore

import (
	"context"
	"fmt"
)

// schema usa tipos que Postgres y SQLite entienden igual.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS reports (
		id                 TEXT PRIMARY KEY,
		title              TEXT NOT NULL,
		incident_date      DATE NOT NULL,
		incident_time      TEXT NOT NULL DEFAULT '',
		animal_type        TEXT NOT NULL,
		dog_count          INTEGER NOT NULL DEFAULT 1,
		severity           TEXT NOT NULL,
		description        TEXT NOT NULL,
		address            TEXT NOT NULL,
		sector             TEXT NOT NULL DEFAULT '',
		latitude           DOUBLE PRECISION NOT NULL,
		longitude          DOUBLE PRECISION NOT NULL,
		reporter_name      TEXT NOT NULL DEFAULT '',
		reporter_email     TEXT NOT NULL DEFAULT '',
		reporter_phone     TEXT NOT NULL DEFAULT '',
		anonymous          BOOLEAN NOT NULL DEFAULT FALSE,
		user_id            TEXT NOT NULL DEFAULT '',
		status             TEXT NOT NULL DEFAULT 'pending',
		moderator_id       TEXT NOT NULL DEFAULT '',
		moderated_at       TIMESTAMP NULL,
		moderation_comment TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMP NOT NULL,
		updated_at         TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS reports_status_idx ON reports (status)`,
	`CREATE INDEX IF NOT EXISTS reports_order_idx ON reports (incident_date DESC, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS report_photos (
		id           TEXT PRIMARY KEY,
		report_id    TEXT NOT NULL REFERENCES reports (id) ON DELETE CASCADE,
		storage_key  TEXT NOT NULL,
		url          TEXT NOT NULL,
		content_type TEXT NOT NULL,
		size_bytes   BIGINT NOT NULL,
		width        INTEGER NOT NULL DEFAULT 0,
		height       INTEGER NOT NULL DEFAULT 0,
		sort_order   INTEGER NOT NULL,
		uploaded_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS report_photos_report_idx ON report_photos (report_id, sort_order)`,
	`CREATE TABLE IF NOT EXISTS moderation_log (
		id           TEXT PRIMARY KEY,
		report_id    TEXT NOT NULL REFERENCES reports (id) ON DELETE CASCADE,
		moderator_id TEXT NOT NULL,
		action       TEXT NOT NULL,
		reason       TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS moderation_log_report_idx ON moderation_log (report_id, created_at)`,
}

// CreateSchema crea tablas e índices si no existen.
func CreateSchema(ctx context.Context, db *DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
