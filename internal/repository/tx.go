package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
)

// withTx executes fn within a transaction if the repository was created with a pool,
// or uses the existing transaction if the repository was created with a transaction
func withTx[T any](ctx context.Context, dbtx db.DBTX, fn func(q *db.Queries) (T, error)) (_ T, txErr error) {
	var zero T

	// Already in a transaction, just use it
	if tx, ok := dbtx.(pgx.Tx); ok {
		return fn(db.New(tx))
	}

	pool, ok := dbtx.(*pgxpool.Pool)
	if !ok {
		return zero, fmt.Errorf("dbtx is neither pgx.Tx nor *pgxpool.Pool: %T", dbtx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	result, err := fn(db.New(tx))
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("tx.Commit: %w", err)
	}

	return result, nil
}
