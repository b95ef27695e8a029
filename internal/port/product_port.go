package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type ProductRepository interface {
	// FindProductsByIDs may return fewer products than requested, never more.
	FindProductsByIDs(ctx context.Context, productIDs []uuid.UUID) ([]domain.Product, error)

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)

	// UpdateProductQuantities sets the available quantity of each product.
	UpdateProductQuantities(ctx context.Context, quantities []domain.ProductQuantity) ([]domain.Product, error)

	// DecrementQuantities subtracts each quantity only if the product still has that much stock.
	// A refused decrement fails with *domain.InsufficientStockError; earlier decrements of the
	// same call are only undone when the call runs inside a UnitOfWork.
	DecrementQuantities(ctx context.Context, decrements []domain.ProductQuantity) ([]domain.Product, error)
}
