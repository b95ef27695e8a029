package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type customerRepository struct {
	q *db.Queries
}

func NewCustomer(pool *pgxpool.Pool) port.CustomerRepository {
	return &customerRepository{
		q: db.New(pool),
	}
}

func NewCustomerWithTx(tx pgx.Tx) port.CustomerRepository {
	return &customerRepository{
		q: db.New(tx),
	}
}

func (r *customerRepository) FindCustomerByID(ctx context.Context, customerID uuid.UUID) (domain.Customer, error) {
	var c domain.Customer

	dbCustomer, err := r.q.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, fmt.Errorf("q.GetCustomer: %w", domain.ErrCustomerNotFound)
		}
		return c, fmt.Errorf("q.GetCustomer: %w", err)
	}

	return domain.Customer{
		ID:        dbCustomer.ID,
		Name:      dbCustomer.Name,
		Email:     dbCustomer.Email,
		CreatedAt: dbCustomer.CreatedAt,
	}, nil
}

func (r *customerRepository) InsertCustomer(ctx context.Context, customer domain.Customer) (uuid.UUID, error) {
	if customer.Name == "" {
		return uuid.Nil, errors.New("name is empty")
	}

	customerID, err := r.q.InsertCustomer(ctx, db.InsertCustomerParams{
		Name:  customer.Name,
		Email: customer.Email,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertCustomer: %w", err)
	}

	return customerID, nil
}
