package httpapi

import (
	"github.com/nikolayk812/storefront/internal/domain"
	"time"
)

type createOrderRequest struct {
	CustomerID string                `json:"customer_id"`
	Products   []requestedProductDTO `json:"products"`
}

type requestedProductDTO struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	Status     string              `json:"status"`
	Items      []orderItemResponse `json:"order_products"`
	Total      *moneyResponse      `json:"total,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

type orderItemResponse struct {
	ProductID string        `json:"product_id"`
	Quantity  int           `json:"quantity"`
	Price     moneyResponse `json:"price"`
}

type moneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type errorResponse struct {
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
}

func toMoneyResponse(m domain.Money) moneyResponse {
	return moneyResponse{
		Amount:   m.Amount.StringFixed(2),
		Currency: m.Currency.String(),
	}
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:         o.ID.String(),
		CustomerID: o.CustomerID.String(),
		Status:     string(o.Status),
		Items:      make([]orderItemResponse, 0, len(o.Items)),
		CreatedAt:  o.CreatedAt,
	}

	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Price:     toMoneyResponse(item.Price),
		})
	}

	// mixed currencies have no single total
	if total, err := o.Total(); err == nil {
		resp.Total = &moneyResponse{
			Amount:   total.Amount.StringFixed(2),
			Currency: total.Currency.String(),
		}
	}

	return resp
}
