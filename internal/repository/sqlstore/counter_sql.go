package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"portfolio/internal/database"
	"portfolio/internal/repository"
)

// CounterSQL is a database/sql implementation of repository.CounterRepository
// for PostgreSQL and SQLite. Both support INSERT ... ON CONFLICT ... RETURNING,
// so the increment is a single atomic statement.
type CounterSQL struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewCounterSQL creates a new CounterSQL repository.
func NewCounterSQL(db *sql.DB, dialect database.Dialect) *CounterSQL {
	return &CounterSQL{db: db, dialect: dialect}
}

var _ repository.CounterRepository = (*CounterSQL)(nil)

// Increment upserts the counter row and returns the incremented value.
func (r *CounterSQL) Increment(ctx context.Context, name string) (int64, error) {
	q := r.bind(`
		INSERT INTO counters (name, value, updated_at)
		VALUES ($1, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE
		SET value = counters.value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING value
	`)
	var v int64
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// Get returns the stored value, 0 for an unknown counter.
func (r *CounterSQL) Get(ctx context.Context, name string) (int64, error) {
	q := r.bind(`SELECT value FROM counters WHERE name = $1`)
	var v int64
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

// Ping checks the connection pool.
func (r *CounterSQL) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// bind rewrites $1 placeholders for SQLite. Queries here take one argument.
func (r *CounterSQL) bind(q string) string {
	if r.dialect == database.SQLite {
		return strings.ReplaceAll(q, "$1", "?")
	}
	return q
}
