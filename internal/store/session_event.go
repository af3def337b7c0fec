package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionColumns = []string{
	"sequence", "session_id", "action", "stage", "difficulty",
	"attempts", "score", "accuracy", "duration_ms", "created_at",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.dialect).
		Insert("session_events").
		Columns(sessionColumns...).
		Values(
			seqNum, data.SessionID, data.Action, data.Stage, data.Difficulty,
			data.Attempts, data.Score, data.Accuracy, data.Duration.Milliseconds(),
			stamp(data.Timestamp),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select(sessionColumns...).
		From(b.Table("session_events")).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEventRecord
	for rows.Next() {
		var (
			rec        SessionEventRecord
			durationMs int64
			createdAt  int64
		)
		if err := rows.Scan(
			&rec.Sequence, &rec.SessionID, &rec.Action, &rec.Stage, &rec.Difficulty,
			&rec.Attempts, &rec.Score, &rec.Accuracy, &durationMs, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.Timestamp = time.UnixMilli(createdAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}
