package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/port"
)

type unitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) port.UnitOfWork {
	return &unitOfWork{pool: pool}
}

// Do runs fn in a READ COMMITTED transaction. Stock consistency relies on the
// conditional decrement re-checking the row after acquiring its lock, not on isolation level.
func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos port.Repositories) error) (txErr error) {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("pool.BeginTx: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	repos := port.Repositories{
		Customers: NewCustomerWithTx(tx),
		Products:  NewProductWithTx(tx),
		Orders:    NewOrderWithTx(tx),
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}
