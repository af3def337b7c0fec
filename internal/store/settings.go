package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

type settingsRepo struct {
	db      *sql.DB
	dialect string
}

func (r *settingsRepo) Load(ctx context.Context, key string) (string, bool, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select("value").
		From(b.Table("settings")).
		Where(entsql.EQ("name", key)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load setting %q: %w", key, err)
	}
	return value, true, nil
}

func (r *settingsRepo) Save(ctx context.Context, key, value string) error {
	query, args := entsql.Dialect(r.dialect).
		Insert("settings").
		Columns("name", "value").
		Values(key, value).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save setting %q: %w", key, err)
	}
	return nil
}

// MemoryKV is an in-process KV for runs without a database.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
