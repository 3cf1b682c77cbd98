package recordnum

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type counterStorePG struct{ pool *pgxpool.Pool }

// NewCounterStorePG creates a CounterStore backed by the counters table.
func NewCounterStorePG(pool *pgxpool.Pool) CounterStore { return &counterStorePG{pool: pool} }

func (s *counterStorePG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

// Increment bumps the named counter and returns the new value. The upsert is
// a single statement, so concurrent callers always see distinct values.
func (s *counterStorePG) Increment(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.conn(ctx).QueryRow(ctx, `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`,
		name).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}
