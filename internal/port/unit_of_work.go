package port

import "context"

// Repositories are bound to a single unit of work.
type Repositories struct {
	Customers CustomerRepository
	Products  ProductRepository
	Orders    OrderRepository
}

// UnitOfWork runs fn atomically: every change made through repos is committed
// when fn returns nil and discarded otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
