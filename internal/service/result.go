package service

import (
	"errors"
	"github.com/nikolayk812/storefront/internal/domain"
)

const (
	ResultCreated                = "created"
	ResultInvalidRequest         = "invalid_request"
	ResultCustomerNotFound       = "customer_not_found"
	ResultProductsNotFound       = "products_not_found"
	ResultPartialProductMismatch = "partial_product_mismatch"
	ResultInsufficientStock      = "insufficient_stock"
	ResultPersistFailure         = "persist_failure"
	ResultError                  = "error"
)

var rejections = []struct {
	err    error
	result string
}{
	{domain.ErrInvalidRequest, ResultInvalidRequest},
	{domain.ErrCustomerNotFound, ResultCustomerNotFound},
	{domain.ErrProductsNotFound, ResultProductsNotFound},
	{domain.ErrPartialProductMismatch, ResultPartialProductMismatch},
	{domain.ErrInsufficientStock, ResultInsufficientStock},
}

// Result labels the outcome of CreateOrder for logs and metrics.
func Result(err error) string {
	if err == nil {
		return ResultCreated
	}

	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.result
		}
	}

	if errors.Is(err, domain.ErrOrderPersistFailure) {
		return ResultPersistFailure
	}

	return ResultError
}

// IsRejection reports whether err is caused by the request rather than by the system.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return true
		}
	}
	return false
}
