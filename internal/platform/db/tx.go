package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

// Runner executes functions inside a database transaction. The open pgx.Tx is
// carried on the context so repositories called within fn join the same
// transaction transparently via TxFromContext.
type Runner struct {
	pool *pgxpool.Pool
}

func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

// WithTx runs fn inside a single transaction. The transaction commits when fn
// returns nil and rolls back otherwise, so multi-statement writes (counter
// increment plus entity insert) are all-or-nothing.
func (r *Runner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the surrounding transaction.
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// TxFromContext retrieves the transaction opened by WithTx, or nil when the
// caller is not inside one.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}
