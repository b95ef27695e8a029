package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
	"time"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) CreateOrder(ctx context.Context, customer domain.Customer, items []domain.OrderItem) (domain.Order, error) {
	var o domain.Order

	if customer.ID == uuid.Nil {
		return o, errors.New("customerID is empty")
	}
	if len(items) == 0 {
		return o, errors.New("no items in order")
	}
	for idx, item := range items {
		if item.Quantity <= 0 || item.Quantity > domain.MaxQuantity {
			return o, fmt.Errorf("items[%d]: quantity[%d] is out of range", idx, item.Quantity)
		}
	}

	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.InsertOrder(ctx, customer.ID)
		if err != nil {
			return o, fmt.Errorf("q.InsertOrder: %w", err)
		}

		// TODO: batch the item inserts with pgx.Batch
		for idx, item := range items {
			arg := db.InsertOrderItemParams{
				OrderID:       dbOrder.ID,
				LineNo:        int32(idx),
				ProductID:     item.ProductID,
				Quantity:      int32(item.Quantity),
				PriceAmount:   item.Price.Amount,
				PriceCurrency: item.Price.Currency.String(),
			}
			if err := q.InsertOrderItem(ctx, arg); err != nil {
				return o, fmt.Errorf("q.InsertOrderItem: %w", err)
			}
		}

		dbItems, err := q.GetOrderItems(ctx, dbOrder.ID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbItems)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("q.GetOrder: %w", domain.ErrOrderNotFound)
			}
			return o, fmt.Errorf("q.GetOrder: %w", err)
		}

		dbOrderItems, err := q.GetOrderItems(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderItems)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	dbOrders, err := r.q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("q.SearchOrders: %w", err)
	}

	// rows arrive grouped by order, items in line order
	var (
		orders []domain.Order
		index  = make(map[uuid.UUID]int)
	)

	for _, row := range dbOrders {
		idx, exists := index[row.ID]
		if !exists {
			order, err := mapSearchOrdersRowToDomainOrder(row)
			if err != nil {
				return nil, fmt.Errorf("mapSearchOrdersRowToDomainOrder: %w", err)
			}
			orders = append(orders, order)
			idx = len(orders) - 1
			index[row.ID] = idx
		}

		item, err := mapSearchOrdersRowToDomainOrderItem(row)
		if err != nil {
			return nil, fmt.Errorf("mapSearchOrdersRowToDomainOrderItem: %w", err)
		}

		orders[idx].Items = append(orders[idx].Items, item)
	}

	return orders, nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	statuses := lo.Map(filter.Statuses, func(status domain.OrderStatus, _ int) string {
		return string(status)
	})

	var createdAfter, createdBefore *time.Time

	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	return db.SearchOrdersParams{
		Ids:           nilSliceIfEmpty(filter.IDs),
		CustomerIds:   nilSliceIfEmpty(filter.CustomerIDs),
		Statuses:      nilSliceIfEmpty(statuses),
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
	}
}

func mapGetOrderItemRowToDomain(row db.GetOrderItemsRow) (domain.OrderItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.OrderItem{
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapDBOrderToDomain(dbOrder db.Order, dbOrderItems []db.GetOrderItemsRow) (domain.Order, error) {
	var o domain.Order

	items := make([]domain.OrderItem, 0, len(dbOrderItems))
	for _, row := range dbOrderItems {
		item, err := mapGetOrderItemRowToDomain(row)
		if err != nil {
			return o, fmt.Errorf("mapGetOrderItemRowToDomain: %w", err)
		}
		items = append(items, item)
	}

	status, err := domain.ToOrderStatus(dbOrder.Status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", dbOrder.Status, err)
	}

	return domain.Order{
		ID:         dbOrder.ID,
		CustomerID: dbOrder.CustomerID,
		Items:      items,
		Status:     status,
		CreatedAt:  dbOrder.CreatedAt,
		UpdatedAt:  dbOrder.UpdatedAt,
	}, nil
}

func mapSearchOrdersRowToDomainOrder(row db.SearchOrdersRow) (domain.Order, error) {
	status, err := domain.ToOrderStatus(row.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ToOrderStatus[%s]: %w", row.Status, err)
	}

	return domain.Order{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		Status:     status,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func mapSearchOrdersRowToDomainOrderItem(row db.SearchOrdersRow) (domain.OrderItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.OrderItem{
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		CreatedAt: row.ItemCreatedAt,
	}, nil
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
