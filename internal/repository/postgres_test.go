package repository_test

import (
	"context"
	"fmt"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
	"testing"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("storefront"),
		postgres.WithPassword("storefront"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

// newMigratedPool connects to connStr and applies the schema.
func newMigratedPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db.Migrate: %w", err)
	}

	return pool, nil
}

func truncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE TABLE order_items, orders, products, customers CASCADE")
	return err
}

func fakeCustomer() domain.Customer {
	return domain.Customer{
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
	}
}

func fakeProduct() domain.Product {
	return domain.Product{
		Name:     gofakeit.ProductName(),
		Price:    fakeMoney(),
		Quantity: gofakeit.Number(1, 100),
	}
}

// fakeMoney has two decimal places to survive the NUMERIC(12, 2) round trip.
func fakeMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: randomCurrency(),
	}
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "CreatedAt", "UpdatedAt"),
		currencyComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.NotEqual(t, uuid.Nil, actual.ID)
	assert.False(t, actual.CreatedAt.IsZero())
	assert.False(t, actual.UpdatedAt.IsZero())
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.OrderItem{}, "CreatedAt"),
		cmpopts.IgnoreFields(domain.Order{}, "CreatedAt", "UpdatedAt"),
		currencyComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
	assert.False(t, actual.UpdatedAt.IsZero())
	assert.NotEqual(t, uuid.Nil, actual.ID)
}
