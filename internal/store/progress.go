package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type progressRepo struct {
	db      *sql.DB
	dialect string
}

var progressColumns = []string{
	"stage", "item_id", "streak", "mastery", "ease_factor",
	"interval_ms", "last_reviewed", "next_review",
}

func (r *progressRepo) SaveProgress(ctx context.Context, p ItemProgress) error {
	query, args := entsql.Dialect(r.dialect).
		Insert("item_progress").
		Columns(progressColumns...).
		Values(
			p.Stage, p.ItemID, p.Streak, p.Mastery, p.EaseFactor,
			p.Interval.Milliseconds(), p.LastReviewed.UnixMilli(), p.NextReview.UnixMilli(),
		).
		OnConflict(
			entsql.ConflictColumns("stage", "item_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress %s/%s: %w", p.Stage, p.ItemID, err)
	}
	return nil
}

func (r *progressRepo) LoadProgress(ctx context.Context, stage string) (map[string]ItemProgress, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select(progressColumns...).
		From(b.Table("item_progress")).
		Where(entsql.EQ("stage", stage)).
		Query()

	list, err := r.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	out := make(map[string]ItemProgress, len(list))
	for _, p := range list {
		out[p.ItemID] = p
	}
	return out, nil
}

func (r *progressRepo) AllProgress(ctx context.Context) ([]ItemProgress, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select(progressColumns...).
		From(b.Table("item_progress")).
		OrderBy("next_review", "stage", "item_id").
		Query()
	return r.query(ctx, query, args)
}

func (r *progressRepo) query(ctx context.Context, query string, args []any) ([]ItemProgress, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var out []ItemProgress
	for rows.Next() {
		var (
			p                        ItemProgress
			intervalMs, last, nextMs int64
		)
		if err := rows.Scan(&p.Stage, &p.ItemID, &p.Streak, &p.Mastery, &p.EaseFactor, &intervalMs, &last, &nextMs); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p.Interval = time.Duration(intervalMs) * time.Millisecond
		p.LastReviewed = time.UnixMilli(last).UTC()
		p.NextReview = time.UnixMilli(nextMs).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}
