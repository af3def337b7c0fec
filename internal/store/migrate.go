package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is portable across SQLite and Postgres. Timestamps are stored as
// unix milliseconds; event tables are keyed by the global sequence.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS answer_events (
		sequence BIGINT PRIMARY KEY,
		session_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		item_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		selected TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		correct BOOLEAN NOT NULL,
		response_ms BIGINT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS answer_events_stage ON answer_events (stage)`,
	`CREATE INDEX IF NOT EXISTS answer_events_session ON answer_events (session_id)`,
	`CREATE TABLE IF NOT EXISTS session_events (
		sequence BIGINT PRIMARY KEY,
		session_id TEXT NOT NULL,
		action TEXT NOT NULL,
		stage TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		attempts BIGINT NOT NULL,
		score BIGINT NOT NULL,
		accuracy BIGINT NOT NULL,
		duration_ms BIGINT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS item_progress (
		stage TEXT NOT NULL,
		item_id TEXT NOT NULL,
		streak BIGINT NOT NULL,
		mastery BIGINT NOT NULL,
		ease_factor DOUBLE PRECISION NOT NULL,
		interval_ms BIGINT NOT NULL,
		last_reviewed BIGINT NOT NULL,
		next_review BIGINT NOT NULL,
		PRIMARY KEY (stage, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val BIGINT NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		sequence BIGINT PRIMARY KEY,
		created_at BIGINT NOT NULL,
		data TEXT NOT NULL
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
