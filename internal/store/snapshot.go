package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo. Snapshots share the global sequence
// so they can be ordered against answer history.
type snapshotRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Sequence == 0 {
		if snap.Sequence, err = r.seq.Next(ctx); err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
	}

	query, args := entsql.Dialect(r.dialect).
		Insert("snapshots").
		Columns("sequence", "created_at", "data").
		Values(snap.Sequence, stamp(snap.Timestamp), string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select("sequence", "created_at", "data").
		From(b.Table("snapshots")).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var (
		snap      Snapshot
		createdAt int64
		raw       string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&snap.Sequence, &createdAt, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	snap.Timestamp = time.UnixMilli(createdAt).UTC()
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	b := entsql.Dialect(r.dialect)
	// Find the sequence of the first snapshot past the keep window.
	query, args := b.Select("sequence").
		From(b.Table("snapshots")).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = entsql.Dialect(r.dialect).
		Delete("snapshots").
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
