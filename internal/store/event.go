package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

const sequenceTable = "global_sequence"

// sequenceCounter hands out the global position shared by answer events,
// session events and snapshots, so records in different tables can be
// ordered against each other. The mutex serializes within the process; the
// transaction keeps the increment atomic in the database.
type sequenceCounter struct {
	mu      sync.Mutex
	db      *sql.DB
	dialect string
}

// newSequenceCounter seeds the single counter row.
func newSequenceCounter(ctx context.Context, db *sql.DB, dialect string) (*sequenceCounter, error) {
	query, args := entsql.Dialect(dialect).
		Insert(sequenceTable).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db, dialect: dialect}, nil
}

// Next returns the next sequence number and advances the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	tx, err := sc.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer tx.Rollback()

	b := entsql.Dialect(sc.dialect)
	query, args := b.Update(sequenceTable).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}

	query, args = b.Select("next_val").
		From(b.Table(sequenceTable)).
		Where(entsql.EQ("id", 1)).
		Query()
	var next int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sequence: %w", err)
	}
	return next - 1, nil
}
