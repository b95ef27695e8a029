package httpapi

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type Handler struct {
	svc    OrderService
	logger *zap.Logger
}

func NewHandler(svc OrderService, logger *zap.Logger) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("order service is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	return &Handler{svc: svc, logger: logger}, nil
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var body createOrderRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	req, err := toOrderRequest(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.svc.CreateOrder(c.Request().Context(), req)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) GetOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "order id is not a valid uuid")
	}

	order, err := h.svc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *Handler) SearchOrders(c echo.Context) error {
	filter, err := toOrderFilter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	orders, err := h.svc.SearchOrders(c.Request().Context(), filter)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(http.StatusOK, lo.Map(orders, func(o domain.Order, _ int) orderResponse {
		return toOrderResponse(o)
	}))
}

func (h *Handler) toHTTPError(err error) error {
	var stockErr *domain.InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		return echo.NewHTTPError(http.StatusConflict, errorResponse{
			Message:   fmt.Sprintf("insufficient quantity for the product with id %s", stockErr.ProductID),
			ProductID: stockErr.ProductID.String(),
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, domain.ErrInsufficientStock.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCustomerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, domain.ErrCustomerNotFound.Error())
	case errors.Is(err, domain.ErrProductsNotFound):
		return echo.NewHTTPError(http.StatusNotFound, domain.ErrProductsNotFound.Error())
	case errors.Is(err, domain.ErrPartialProductMismatch):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, domain.ErrPartialProductMismatch.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, domain.ErrOrderNotFound.Error())
	case errors.Is(err, domain.ErrOrderPersistFailure):
		return echo.NewHTTPError(http.StatusInternalServerError,
			"there was an internal error saving your order, please try again")
	default:
		h.logger.Error("unexpected error", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func toOrderRequest(body createOrderRequest) (domain.OrderRequest, error) {
	var req domain.OrderRequest

	customerID, err := uuid.Parse(body.CustomerID)
	if err != nil {
		return req, fmt.Errorf("customer_id[%s] is not a valid uuid", body.CustomerID)
	}
	req.CustomerID = customerID

	for idx, p := range body.Products {
		productID, err := uuid.Parse(p.ID)
		if err != nil {
			return req, fmt.Errorf("products[%d].id[%s] is not a valid uuid", idx, p.ID)
		}
		req.Items = append(req.Items, domain.RequestedItem{ProductID: productID, Quantity: p.Quantity})
	}

	return req, nil
}

func toOrderFilter(c echo.Context) (domain.OrderFilter, error) {
	var filter domain.OrderFilter

	params := c.QueryParams()

	for _, raw := range params["id"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("id[%s] is not a valid uuid", raw)
		}
		filter.IDs = append(filter.IDs, id)
	}

	for _, raw := range params["customer_id"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("customer_id[%s] is not a valid uuid", raw)
		}
		filter.CustomerIDs = append(filter.CustomerIDs, id)
	}

	for _, raw := range params["status"] {
		status, err := domain.ToOrderStatus(raw)
		if err != nil {
			return filter, fmt.Errorf("status[%s]: %w", raw, err)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	after, err := parseTime(c.QueryParam("created_after"))
	if err != nil {
		return filter, fmt.Errorf("created_after: %w", err)
	}
	before, err := parseTime(c.QueryParam("created_before"))
	if err != nil {
		return filter, fmt.Errorf("created_before: %w", err)
	}
	if after != nil || before != nil {
		filter.CreatedAt = &domain.TimeRange{After: after, Before: before}
	}

	return filter, nil
}

func parseTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}

	return lo.ToPtr(ts), nil
}
