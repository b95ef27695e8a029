package memory

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"time"
)

type customerRepository struct {
	exec executor
	now  func() time.Time
}

func (r *customerRepository) FindCustomerByID(ctx context.Context, customerID uuid.UUID) (domain.Customer, error) {
	var c domain.Customer

	if err := ctx.Err(); err != nil {
		return c, err
	}

	err := r.exec.read(func(st *state) error {
		found, ok := st.customers[customerID]
		if !ok {
			return fmt.Errorf("customer[%s]: %w", customerID, domain.ErrCustomerNotFound)
		}
		c = found
		return nil
	})

	return c, err
}

func (r *customerRepository) InsertCustomer(ctx context.Context, customer domain.Customer) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if customer.Name == "" {
		return uuid.Nil, errors.New("name is empty")
	}

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	err := r.exec.write(func(st *state) error {
		if _, exists := st.customers[customer.ID]; exists {
			return fmt.Errorf("customer[%s] already exists", customer.ID)
		}
		if customer.CreatedAt.IsZero() {
			customer.CreatedAt = r.now()
		}
		st.customers[customer.ID] = customer
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return customer.ID, nil
}
