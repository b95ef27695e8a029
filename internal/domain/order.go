package domain

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"time"
)

type Order struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Items      []OrderItem
	Status     OrderStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a single order line. Price is the product price captured when the order was placed.
type OrderItem struct {
	ProductID uuid.UUID
	Quantity  int
	Price     Money

	CreatedAt time.Time
}

// Subtotal is the line price multiplied by its quantity.
func (i OrderItem) Subtotal() Money {
	return Money{
		Amount:   i.Price.Amount.Mul(decimal.NewFromInt(int64(i.Quantity))),
		Currency: i.Price.Currency,
	}
}

// Total sums the line subtotals. All lines must share one currency.
func (o Order) Total() (Money, error) {
	if len(o.Items) == 0 {
		return Money{}, errors.New("no items in order")
	}

	total := Money{Amount: decimal.Zero, Currency: o.Items[0].Price.Currency}

	for _, item := range o.Items {
		if item.Price.Currency != total.Currency {
			return Money{}, fmt.Errorf("currency mismatch: %s vs %s", item.Price.Currency, total.Currency)
		}
		total.Amount = total.Amount.Add(item.Subtotal().Amount)
	}

	return total, nil
}
