package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"time"
)

const tracerName = "github.com/nikolayk812/storefront/internal/service"

// Recorder receives the outcome of every order creation attempt.
type Recorder interface {
	ObserveOrder(result string, elapsed time.Duration)
}

type Option func(*OrderService)

func WithTracer(tracer trace.Tracer) Option {
	return func(s *OrderService) {
		s.tracer = tracer
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(s *OrderService) {
		s.recorder = recorder
	}
}

type OrderService struct {
	repos    port.Repositories
	uow      port.UnitOfWork
	logger   *zap.Logger
	tracer   trace.Tracer
	recorder Recorder
}

// NewOrderService reads through repos and writes orders and stock through uow.
func NewOrderService(repos port.Repositories, uow port.UnitOfWork, logger *zap.Logger, opts ...Option) (*OrderService, error) {
	if repos.Customers == nil {
		return nil, errors.New("customer repository is nil")
	}
	if repos.Products == nil {
		return nil, errors.New("product repository is nil")
	}
	if repos.Orders == nil {
		return nil, errors.New("order repository is nil")
	}
	if uow == nil {
		return nil, errors.New("unit of work is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	s := &OrderService{
		repos:  repos,
		uow:    uow,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// CreateOrder validates the request against a single product snapshot, then stores the
// order and decrements stock in one unit of work. The decrement is conditional, so an order
// that passed the snapshot check can still fail with domain.ErrInsufficientStock when a
// concurrent order took the stock first; in that case nothing is stored.
func (s *OrderService) CreateOrder(ctx context.Context, req domain.OrderRequest) (_ domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(
		attribute.String("customer.id", req.CustomerID.String()),
		attribute.Int("order.lines", len(req.Items)),
	))
	start := time.Now()

	var order domain.Order

	defer func() {
		s.finish(span, req, order, start, err)
		span.End()
	}()

	if err := req.Validate(); err != nil {
		return order, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	customer, err := s.repos.Customers.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return order, fmt.Errorf("customers.FindCustomerByID: %w", err)
	}

	productIDs := req.ProductIDs()

	products, err := s.repos.Products.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return order, fmt.Errorf("products.FindProductsByIDs: %w", err)
	}

	productsByID, err := resolveProducts(productIDs, products)
	if err != nil {
		return order, err
	}

	if err := checkStock(products, req.Items); err != nil {
		return order, err
	}

	items := buildOrderItems(req.Items, productsByID)
	decrements := aggregateQuantities(req.Items)

	err = s.uow.Do(ctx, func(ctx context.Context, repos port.Repositories) error {
		created, err := repos.Orders.CreateOrder(ctx, customer, items)
		if err != nil {
			return fmt.Errorf("orders.CreateOrder: %w", err)
		}
		if created.ID == uuid.Nil {
			return domain.ErrOrderPersistFailure
		}

		if _, err := repos.Products.DecrementQuantities(ctx, decrements); err != nil {
			return fmt.Errorf("products.DecrementQuantities: %w", err)
		}

		order = created
		return nil
	})
	if err != nil {
		order = domain.Order{}
		return order, fmt.Errorf("uow.Do: %w", err)
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	if orderID == uuid.Nil {
		return domain.Order{}, fmt.Errorf("%w: orderID is empty", domain.ErrInvalidRequest)
	}

	order, err := s.repos.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return order, nil
}

func (s *OrderService) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	orders, err := s.repos.Orders.SearchOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) finish(span trace.Span, req domain.OrderRequest, order domain.Order, start time.Time, err error) {
	elapsed := time.Since(start)
	result := Result(err)

	if s.recorder != nil {
		s.recorder.ObserveOrder(result, elapsed)
	}

	span.SetAttributes(attribute.String("order.result", result))

	fields := []zap.Field{
		zap.String("customer_id", req.CustomerID.String()),
		zap.Int("lines", len(req.Items)),
		zap.String("result", result),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err == nil:
		span.SetAttributes(attribute.String("order.id", order.ID.String()))
		span.SetStatus(codes.Ok, "order created")
		s.logger.Info("order created", append(fields, zap.String("order_id", order.ID.String()))...)
	case IsRejection(err):
		span.SetStatus(codes.Error, result)
		s.logger.Warn("order rejected", append(fields, zap.Error(err))...)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("order failed", append(fields, zap.Error(err))...)
	}
}

// resolveProducts indexes the looked up products and makes sure every requested id is among them.
func resolveProducts(productIDs []uuid.UUID, products []domain.Product) (map[uuid.UUID]domain.Product, error) {
	if len(products) == 0 {
		return nil, domain.ErrProductsNotFound
	}

	if len(products) != len(productIDs) {
		return nil, fmt.Errorf("%w: found %d of %d", domain.ErrPartialProductMismatch, len(products), len(productIDs))
	}

	productsByID := lo.KeyBy(products, func(p domain.Product) uuid.UUID {
		return p.ID
	})

	for _, id := range productIDs {
		if _, ok := productsByID[id]; !ok {
			return nil, fmt.Errorf("%w: product[%s] is missing", domain.ErrPartialProductMismatch, id)
		}
	}

	return productsByID, nil
}

// checkStock compares every requested line with the snapshot quantity of its product.
// Products are visited in lookup order, so the reported product is the first offender in that order.
func checkStock(products []domain.Product, items []domain.RequestedItem) error {
	for _, p := range products {
		for _, item := range items {
			if item.ProductID != p.ID {
				continue
			}
			if item.Quantity > p.Quantity {
				return &domain.InsufficientStockError{
					ProductID: p.ID,
					Requested: item.Quantity,
					Available: p.Quantity,
				}
			}
		}
	}

	return nil
}

// buildOrderItems keeps request order and captures each product's current price.
func buildOrderItems(items []domain.RequestedItem, productsByID map[uuid.UUID]domain.Product) []domain.OrderItem {
	return lo.Map(items, func(item domain.RequestedItem, _ int) domain.OrderItem {
		return domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     productsByID[item.ProductID].Price,
		}
	})
}

// aggregateQuantities sums requested quantities per distinct product, in first-seen order.
func aggregateQuantities(items []domain.RequestedItem) []domain.ProductQuantity {
	var (
		result []domain.ProductQuantity
		index  = make(map[uuid.UUID]int)
	)

	for _, item := range items {
		if idx, ok := index[item.ProductID]; ok {
			result[idx].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(result)
		result = append(result, domain.ProductQuantity{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return result
}
