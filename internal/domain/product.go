package domain

import (
	"github.com/google/uuid"
	"math"
	"time"
)

// MaxQuantity is the largest stock or order quantity a product can hold.
const MaxQuantity = math.MaxInt32

type Product struct {
	ID       uuid.UUID
	Name     string
	Price    Money
	Quantity int // available stock

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductQuantity pairs a product with a quantity.
// Its meaning (absolute stock or amount to subtract) depends on the repository method it is passed to.
type ProductQuantity struct {
	ProductID uuid.UUID
	Quantity  int
}
