package domain

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
)

var (
	ErrInvalidRequest         = errors.New("invalid order request")
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrProductsNotFound       = errors.New("no products were found with the ids provided")
	ErrPartialProductMismatch = errors.New("could not find some of the requested products")
	ErrInsufficientStock      = errors.New("insufficient quantity")
	ErrOrderPersistFailure    = errors.New("order was not saved")
	ErrOrderNotFound          = errors.New("order not found")
)

// InsufficientStockError names the product whose stock could not cover the request.
// It matches ErrInsufficientStock with errors.Is.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient quantity for product[%s]: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
