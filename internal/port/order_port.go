package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type OrderRepository interface {
	// CreateOrder stores a pending order with its items.
	// A zero order ID without an error means the store created nothing.
	CreateOrder(ctx context.Context, customer domain.Customer, items []domain.OrderItem) (domain.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}
