package domain

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// OrderRequest is the input of order placement. It is never persisted as is.
type OrderRequest struct {
	CustomerID uuid.UUID
	Items      []RequestedItem
}

type RequestedItem struct {
	ProductID uuid.UUID
	Quantity  int
}

func (r OrderRequest) Validate() error {
	if r.CustomerID == uuid.Nil {
		return errors.New("customerID is empty")
	}

	if len(r.Items) == 0 {
		return errors.New("no items in request")
	}

	for idx, item := range r.Items {
		if item.ProductID == uuid.Nil {
			return fmt.Errorf("items[%d]: productID is empty", idx)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("items[%d]: quantity[%d] must be positive", idx, item.Quantity)
		}
	}

	return nil
}

// ProductIDs returns the distinct product ids in request order.
func (r OrderRequest) ProductIDs() []uuid.UUID {
	return lo.Uniq(lo.Map(r.Items, func(item RequestedItem, _ int) uuid.UUID {
		return item.ProductID
	}))
}
