package memory

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

type productRepository struct {
	exec         executor
	now          func() time.Time
	decrementErr error
}

// FindProductsByIDs returns products in the order their ids were first requested.
func (r *productRepository) FindProductsByIDs(ctx context.Context, productIDs []uuid.UUID) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var products []domain.Product

	err := r.exec.read(func(st *state) error {
		seen := make(map[uuid.UUID]struct{}, len(productIDs))
		for _, id := range productIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			if p, ok := st.products[id]; ok {
				products = append(products, p)
			}
		}
		return nil
	})

	return products, err
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
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

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	err := r.exec.write(func(st *state) error {
		if _, exists := st.products[product.ID]; exists {
			return fmt.Errorf("product[%s] already exists", product.ID)
		}
		now := r.now()
		product.CreatedAt = now
		product.UpdatedAt = now
		st.products[product.ID] = product
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return product.ID, nil
}

func (r *productRepository) UpdateProductQuantities(ctx context.Context, quantities []domain.ProductQuantity) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated []domain.Product

	err := r.exec.write(func(st *state) error {
		for _, pq := range quantities {
			if pq.Quantity < 0 {
				return fmt.Errorf("product[%s]: quantity is negative", pq.ProductID)
			}
			if pq.Quantity > domain.MaxQuantity {
				return fmt.Errorf("product[%s]: quantity exceeds %d", pq.ProductID, domain.MaxQuantity)
			}

			p, ok := st.products[pq.ProductID]
			if !ok {
				return fmt.Errorf("product[%s]: %w", pq.ProductID, ErrProductNotFound)
			}

			p.Quantity = pq.Quantity
			p.UpdatedAt = r.now()
			st.products[p.ID] = p
			updated = append(updated, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *productRepository) DecrementQuantities(ctx context.Context, decrements []domain.ProductQuantity) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.decrementErr != nil {
		return nil, r.decrementErr
	}

	var updated []domain.Product

	err := r.exec.write(func(st *state) error {
		for _, d := range decrements {
			if d.Quantity <= 0 {
				return fmt.Errorf("product[%s]: decrement must be positive", d.ProductID)
			}

			p, ok := st.products[d.ProductID]
			if !ok {
				return fmt.Errorf("product[%s]: %w", d.ProductID, ErrProductNotFound)
			}

			if p.Quantity < d.Quantity {
				return &domain.InsufficientStockError{
					ProductID: d.ProductID,
					Requested: d.Quantity,
					Available: p.Quantity,
				}
			}

			p.Quantity -= d.Quantity
			p.UpdatedAt = r.now()
			st.products[p.ID] = p
			updated = append(updated, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
