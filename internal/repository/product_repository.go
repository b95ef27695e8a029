package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
	"slices"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

type productRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{
		q:    db.New(tx),
		dbtx: tx,
	}
}

func (r *productRepository) FindProductsByIDs(ctx context.Context, productIDs []uuid.UUID) ([]domain.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	dbProducts, err := r.q.GetProductsByIDs(ctx, lo.Uniq(productIDs))
	if err != nil {
		return nil, fmt.Errorf("q.GetProductsByIDs: %w", err)
	}

	products, err := mapDBProductsToDomain(dbProducts)
	if err != nil {
		return nil, fmt.Errorf("mapDBProductsToDomain: %w", err)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if product.Name == "" {
		return uuid.Nil, errors.New("name is empty")
	}
	if product.Price.Amount.IsNegative() {
		return uuid.Nil, errors.New("price is negative")
	}
	if product.Quantity < 0 {
		return uuid.Nil, errors.New("quantity is negative")
	}
	if product.Quantity > domain.MaxQuantity {
		return uuid.Nil, fmt.Errorf("quantity exceeds %d", domain.MaxQuantity)
	}

	productID, err := r.q.InsertProduct(ctx, db.InsertProductParams{
		Name:          product.Name,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Quantity:      int32(product.Quantity),
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertProduct: %w", err)
	}

	return productID, nil
}

func (r *productRepository) UpdateProductQuantities(ctx context.Context, quantities []domain.ProductQuantity) ([]domain.Product, error) {
	for _, pq := range quantities {
		if pq.Quantity < 0 {
			return nil, fmt.Errorf("product[%s]: quantity is negative", pq.ProductID)
		}
		if pq.Quantity > domain.MaxQuantity {
			return nil, fmt.Errorf("product[%s]: quantity exceeds %d", pq.ProductID, domain.MaxQuantity)
		}
	}

	products, err := withTx(ctx, r.dbtx, func(q *db.Queries) ([]domain.Product, error) {
		var result []domain.Product

		for _, pq := range quantities {
			dbProduct, err := q.SetProductQuantity(ctx, db.SetProductQuantityParams{
				Quantity: int32(pq.Quantity),
				ID:       pq.ProductID,
			})
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("q.SetProductQuantity[%s]: %w", pq.ProductID, ErrProductNotFound)
				}
				return nil, fmt.Errorf("q.SetProductQuantity[%s]: %w", pq.ProductID, err)
			}

			product, err := mapDBProductToDomain(dbProduct)
			if err != nil {
				return nil, fmt.Errorf("mapDBProductToDomain: %w", err)
			}
			result = append(result, product)
		}

		return result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("withTx: %w", err)
	}

	return products, nil
}

func (r *productRepository) DecrementQuantities(ctx context.Context, decrements []domain.ProductQuantity) ([]domain.Product, error) {
	for _, d := range decrements {
		if d.Quantity <= 0 {
			return nil, fmt.Errorf("product[%s]: decrement must be positive", d.ProductID)
		}
	}

	// rows are locked in ascending id order so that concurrent orders cannot deadlock
	sorted := slices.Clone(decrements)
	slices.SortStableFunc(sorted, func(a, b domain.ProductQuantity) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})

	products, err := withTx(ctx, r.dbtx, func(q *db.Queries) ([]domain.Product, error) {
		var result []domain.Product

		for _, d := range sorted {
			// no stored quantity can cover it, and it would not fit the int32 parameter
			if d.Quantity > domain.MaxQuantity {
				return nil, insufficientStock(ctx, q, d)
			}

			dbProduct, err := q.DecrementProductQuantity(ctx, db.DecrementProductQuantityParams{
				Quantity: int32(d.Quantity),
				ID:       d.ProductID,
			})
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, insufficientStock(ctx, q, d)
				}
				return nil, fmt.Errorf("q.DecrementProductQuantity[%s]: %w", d.ProductID, err)
			}

			product, err := mapDBProductToDomain(dbProduct)
			if err != nil {
				return nil, fmt.Errorf("mapDBProductToDomain: %w", err)
			}
			result = append(result, product)
		}

		return result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("withTx: %w", err)
	}

	return products, nil
}

// insufficientStock explains why a conditional decrement matched no row.
func insufficientStock(ctx context.Context, q *db.Queries, d domain.ProductQuantity) error {
	available, err := q.GetProductQuantity(ctx, d.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("q.GetProductQuantity[%s]: %w", d.ProductID, ErrProductNotFound)
		}
		return fmt.Errorf("q.GetProductQuantity[%s]: %w", d.ProductID, err)
	}

	return &domain.InsufficientStockError{
		ProductID: d.ProductID,
		Requested: d.Quantity,
		Available: int(available),
	}
}

func mapDBProductToDomain(p db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(p.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", p.PriceCurrency, err)
	}

	return domain.Product{
		ID:        p.ID,
		Name:      p.Name,
		Price:     domain.Money{Amount: p.PriceAmount, Currency: parsedCurrency},
		Quantity:  int(p.Quantity),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func mapDBProductsToDomain(rows []db.Product) ([]domain.Product, error) {
	var products []domain.Product

	for _, row := range rows {
		product, err := mapDBProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapDBProductToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}
