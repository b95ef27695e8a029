package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type CustomerRepository interface {
	// FindCustomerByID returns domain.ErrCustomerNotFound when the customer does not exist.
	FindCustomerByID(ctx context.Context, customerID uuid.UUID) (domain.Customer, error)

	InsertCustomer(ctx context.Context, customer domain.Customer) (uuid.UUID, error)
}
