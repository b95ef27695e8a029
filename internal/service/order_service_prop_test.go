package service_test

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"pgregory.net/rapid"
	"testing"
)

type catalogProduct struct {
	id    uuid.UUID
	price decimal.Decimal
	stock int
}

// TestCreateOrderProperties checks, for random catalogs and requests, that an order is either
// created with exactly the requested lines and prices and a matching stock decrease, or
// rejected with one of the known errors and no side effects.
func TestCreateOrderProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()

		store := memory.NewStore()
		repos := store.Repositories()

		svc, err := service.NewOrderService(repos, store, zap.NewNop())
		if err != nil {
			rt.Fatalf("NewOrderService: %v", err)
		}

		customerID, err := repos.Customers.InsertCustomer(ctx, domain.Customer{Name: "customer"})
		if err != nil {
			rt.Fatalf("InsertCustomer: %v", err)
		}

		catalog := rapid.SliceOfN(rapid.Custom(func(rt *rapid.T) catalogProduct {
			return catalogProduct{
				price: decimal.New(rapid.Int64Range(0, 100_000).Draw(rt, "cents"), -2),
				stock: rapid.IntRange(0, 20).Draw(rt, "stock"),
			}
		}), 1, 5).Draw(rt, "catalog")

		for i := range catalog {
			catalog[i].id, err = repos.Products.InsertProduct(ctx, domain.Product{
				Name:     "product",
				Price:    domain.Money{Amount: catalog[i].price, Currency: currency.EUR},
				Quantity: catalog[i].stock,
			})
			if err != nil {
				rt.Fatalf("InsertProduct: %v", err)
			}
		}

		useUnknownCustomer := rapid.IntRange(0, 9).Draw(rt, "unknownCustomer") == 0
		requestCustomer := customerID
		if useUnknownCustomer {
			requestCustomer = uuid.New()
		}

		unknownProduct := uuid.New()
		lines := rapid.SliceOfN(rapid.Custom(func(rt *rapid.T) domain.RequestedItem {
			idx := rapid.IntRange(0, len(catalog)).Draw(rt, "product")
			productID := unknownProduct
			if idx < len(catalog) {
				productID = catalog[idx].id
			}
			return domain.RequestedItem{
				ProductID: productID,
				Quantity:  rapid.IntRange(1, 8).Draw(rt, "quantity"),
			}
		}), 1, 6).Draw(rt, "lines")

		before := stockOf(rt, repos.Products, catalog)

		order, err := svc.CreateOrder(ctx, domain.OrderRequest{CustomerID: requestCustomer, Items: lines})

		after := stockOf(rt, repos.Products, catalog)

		if err != nil {
			switch {
			case errors.Is(err, domain.ErrCustomerNotFound):
				if !useUnknownCustomer {
					rt.Fatalf("unexpected customer not found: %v", err)
				}
			case errors.Is(err, domain.ErrProductsNotFound),
				errors.Is(err, domain.ErrPartialProductMismatch):
				if !hasProduct(lines, unknownProduct) {
					rt.Fatalf("unexpected lookup failure: %v", err)
				}
			case errors.Is(err, domain.ErrInsufficientStock):
				if !exceedsStock(lines, catalog) {
					rt.Fatalf("unexpected insufficient stock: %v", err)
				}
			default:
				rt.Fatalf("unexpected error: %v", err)
			}

			for id, q := range before {
				if after[id] != q {
					rt.Fatalf("stock of %s changed on failure: %d -> %d", id, q, after[id])
				}
			}
			return
		}

		if useUnknownCustomer || hasProduct(lines, unknownProduct) || exceedsStock(lines, catalog) {
			rt.Fatalf("order created for an invalid request")
		}

		if len(order.Items) != len(lines) {
			rt.Fatalf("order has %d lines, request has %d", len(order.Items), len(lines))
		}

		requested := make(map[uuid.UUID]int)
		for i, line := range lines {
			item := order.Items[i]
			if item.ProductID != line.ProductID || item.Quantity != line.Quantity {
				rt.Fatalf("line %d: got %s x%d, want %s x%d", i, item.ProductID, item.Quantity, line.ProductID, line.Quantity)
			}
			if !item.Price.Amount.Equal(priceOf(catalog, line.ProductID)) {
				rt.Fatalf("line %d: price %s was not captured from the product", i, item.Price.Amount)
			}
			requested[line.ProductID] += line.Quantity
		}

		for id, q := range before {
			if after[id] != q-requested[id] {
				rt.Fatalf("stock of %s: got %d, want %d", id, after[id], q-requested[id])
			}
			if after[id] < 0 {
				rt.Fatalf("stock of %s is negative", id)
			}
		}
	})
}

func stockOf(rt *rapid.T, products port.ProductRepository, catalog []catalogProduct) map[uuid.UUID]int {
	ids := make([]uuid.UUID, 0, len(catalog))
	for _, p := range catalog {
		ids = append(ids, p.id)
	}

	found, err := products.FindProductsByIDs(context.Background(), ids)
	if err != nil {
		rt.Fatalf("FindProductsByIDs: %v", err)
	}

	result := make(map[uuid.UUID]int, len(found))
	for _, p := range found {
		result[p.ID] = p.Quantity
	}
	return result
}

func hasProduct(lines []domain.RequestedItem, productID uuid.UUID) bool {
	for _, line := range lines {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}

// exceedsStock reports whether any single line or any product's summed lines need more than its stock.
func exceedsStock(lines []domain.RequestedItem, catalog []catalogProduct) bool {
	sums := make(map[uuid.UUID]int)
	for _, line := range lines {
		sums[line.ProductID] += line.Quantity
	}

	for _, p := range catalog {
		if sums[p.id] > p.stock {
			return true
		}
	}
	return false
}

func priceOf(catalog []catalogProduct, productID uuid.UUID) decimal.Decimal {
	for _, p := range catalog {
		if p.id == productID {
			return p.price
		}
	}
	return decimal.Zero
}
