package memory

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"slices"
	"time"
)

type orderRepository struct {
	exec         executor
	now          func() time.Time
	silentCreate bool
}

func (r *orderRepository) CreateOrder(ctx context.Context, customer domain.Customer, items []domain.OrderItem) (domain.Order, error) {
	var o domain.Order

	if err := ctx.Err(); err != nil {
		return o, err
	}
	if customer.ID == uuid.Nil {
		return o, errors.New("customerID is empty")
	}
	if len(items) == 0 {
		return o, errors.New("no items in order")
	}

	if r.silentCreate {
		return o, nil
	}

	err := r.exec.write(func(st *state) error {
		if _, ok := st.customers[customer.ID]; !ok {
			return fmt.Errorf("customer[%s]: %w", customer.ID, domain.ErrCustomerNotFound)
		}

		now := r.now()

		o = domain.Order{
			ID:         uuid.New(),
			CustomerID: customer.ID,
			Items:      make([]domain.OrderItem, 0, len(items)),
			Status:     domain.OrderStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		for _, item := range items {
			item.CreatedAt = now
			o.Items = append(o.Items, item)
		}

		st.orders[o.ID] = o
		st.orderIDs = append(st.orderIDs, o.ID)
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return cloneOrder(o), nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if err := ctx.Err(); err != nil {
		return o, err
	}

	err := r.exec.read(func(st *state) error {
		found, ok := st.orders[orderID]
		if !ok {
			return fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
		}
		o = cloneOrder(found)
		return nil
	})

	return o, err
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	var orders []domain.Order

	err := r.exec.read(func(st *state) error {
		for _, id := range st.orderIDs {
			o := st.orders[id]
			if filter.Matches(o) {
				orders = append(orders, cloneOrder(o))
			}
		}
		return nil
	})

	return orders, err
}

// cloneOrder detaches the items slice from the stored order.
func cloneOrder(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	return o
}
