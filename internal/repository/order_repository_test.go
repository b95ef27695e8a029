package repository_test

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
	"testing"
	"time"
)

type orderRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.OrderRepository
	customers port.CustomerRepository
	products  port.ProductRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestOrderRepositorySuite(t *testing.T) {
	defer goleak.VerifyNone(t)

	suite.Run(t, new(orderRepositorySuite))
}

// before all tests in the suite
func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = newMigratedPool(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewOrder(suite.pool)
	suite.customers = repository.NewCustomer(suite.pool)
	suite.products = repository.NewProduct(suite.pool)
}

// after all tests in the suite
func (suite *orderRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *orderRepositorySuite) TearDownTest() {
	suite.NoError(truncateAll(suite.T().Context(), suite.pool))
}

func (suite *orderRepositorySuite) TestCreateOrder() {
	customer := suite.insertCustomer()

	tests := []struct {
		name      string
		customer  domain.Customer
		itemsFunc func() []domain.OrderItem
		wantError string
	}{
		{
			name:      "single item: ok",
			customer:  customer,
			itemsFunc: func() []domain.OrderItem { return suite.fakeOrderItems(1) },
		},
		{
			name:      "several items: ok, line order kept",
			customer:  customer,
			itemsFunc: func() []domain.OrderItem { return suite.fakeOrderItems(gofakeit.Number(2, 5)) },
		},
		{
			name:     "same product on two lines: ok",
			customer: customer,
			itemsFunc: func() []domain.OrderItem {
				items := suite.fakeOrderItems(1)
				second := items[0]
				second.Quantity++
				return append(items, second)
			},
		},
		{
			name:      "no items: fail",
			customer:  customer,
			itemsFunc: func() []domain.OrderItem { return nil },
			wantError: "no items in order",
		},
		{
			name:      "empty customer: fail",
			itemsFunc: func() []domain.OrderItem { return suite.fakeOrderItems(1) },
			wantError: "customerID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			items := tt.itemsFunc()

			created, err := suite.repo.CreateOrder(ctx, tt.customer, items)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			expected := domain.Order{
				ID:         created.ID,
				CustomerID: tt.customer.ID,
				Items:      items,
				Status:     domain.OrderStatusPending,
			}
			assertOrder(t, expected, created)

			actual, err := suite.repo.GetOrder(ctx, created.ID)
			require.NoError(t, err)
			assertOrder(t, expected, actual)
		})
	}
}

func (suite *orderRepositorySuite) TestGetOrder_KeepsPriceAfterRepricing() {
	t := suite.T()
	ctx := t.Context()

	items := suite.fakeOrderItems(2)

	created, err := suite.repo.CreateOrder(ctx, suite.insertCustomer(), items)
	require.NoError(t, err)

	_, err = suite.pool.Exec(ctx, "UPDATE products SET price_amount = price_amount + 1000, price_currency = 'JPY'")
	require.NoError(t, err)

	repriced, err := suite.products.FindProductsByIDs(ctx, []uuid.UUID{items[0].ProductID})
	require.NoError(t, err)
	require.Len(t, repriced, 1)
	require.False(t, repriced[0].Price.Amount.Equal(items[0].Price.Amount))

	expected := domain.Order{
		ID:         created.ID,
		CustomerID: created.CustomerID,
		Items:      items,
		Status:     domain.OrderStatusPending,
	}

	actual, err := suite.repo.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assertOrder(t, expected, actual)

	found, err := suite.repo.SearchOrders(ctx, domain.OrderFilter{IDs: []uuid.UUID{created.ID}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assertOrder(t, expected, found[0])
}

func (suite *orderRepositorySuite) TestCreateOrder_UnknownCustomer() {
	t := suite.T()

	_, err := suite.repo.CreateOrder(t.Context(), domain.Customer{ID: uuid.New()}, suite.fakeOrderItems(1))
	require.Error(t, err)
}

func (suite *orderRepositorySuite) TestGetOrder_NotFound() {
	t := suite.T()

	_, err := suite.repo.GetOrder(t.Context(), uuid.New())
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	require.EqualError(t, err, "withTx: q.GetOrder: order not found")
}

func (suite *orderRepositorySuite) TestSearchOrders() {
	ctx := suite.T().Context()

	customer1 := suite.insertCustomer()
	customer2 := suite.insertCustomer()

	order1, err := suite.repo.CreateOrder(ctx, customer1, suite.fakeOrderItems(2))
	suite.Require().NoError(err)
	order2, err := suite.repo.CreateOrder(ctx, customer2, suite.fakeOrderItems(1))
	suite.Require().NoError(err)
	order3, err := suite.repo.CreateOrder(ctx, customer1, suite.fakeOrderItems(3))
	suite.Require().NoError(err)

	future := time.Now().Add(time.Hour)
	past := order1.CreatedAt.Add(-time.Hour)

	tests := []struct {
		name       string
		filter     domain.OrderFilter
		wantOrders []domain.Order
		wantError  string
	}{
		{
			name:      "empty filter: error",
			filter:    domain.OrderFilter{},
			wantError: "filter.Validate: all fields are empty",
		},
		{
			name:       "search by ids: 1 found",
			filter:     domain.OrderFilter{IDs: []uuid.UUID{order2.ID}},
			wantOrders: []domain.Order{order2},
		},
		{
			name:       "search by ids: 2 found",
			filter:     domain.OrderFilter{IDs: []uuid.UUID{order1.ID, order3.ID}},
			wantOrders: []domain.Order{order1, order3},
		},
		{
			name:   "search by ids: not found",
			filter: domain.OrderFilter{IDs: []uuid.UUID{uuid.New()}},
		},
		{
			name:       "search by customer: 2 found",
			filter:     domain.OrderFilter{CustomerIDs: []uuid.UUID{customer1.ID}},
			wantOrders: []domain.Order{order1, order3},
		},
		{
			name:       "search by customers: 3 found",
			filter:     domain.OrderFilter{CustomerIDs: []uuid.UUID{customer1.ID, customer2.ID}},
			wantOrders: []domain.Order{order1, order2, order3},
		},
		{
			name: "search by id and customer: 0 found",
			filter: domain.OrderFilter{
				IDs:         []uuid.UUID{order2.ID},
				CustomerIDs: []uuid.UUID{customer1.ID},
			},
		},
		{
			name:       "search by status: 3 found",
			filter:     domain.OrderFilter{Statuses: []domain.OrderStatus{domain.OrderStatusPending}},
			wantOrders: []domain.Order{order1, order2, order3},
		},
		{
			name:   "search by status: 0 found",
			filter: domain.OrderFilter{Statuses: []domain.OrderStatus{domain.OrderStatusShipped}},
		},
		{
			name:      "search by unknown status: error",
			filter:    domain.OrderFilter{Statuses: []domain.OrderStatus{"lost"}},
			wantError: "filter.Validate: status[lost]: invalid order status",
		},
		{
			name: "search by created at range: 3 found",
			filter: domain.OrderFilter{
				CreatedAt: &domain.TimeRange{After: &past, Before: &future},
			},
			wantOrders: []domain.Order{order1, order2, order3},
		},
		{
			name: "search created after future: 0 found",
			filter: domain.OrderFilter{
				CreatedAt: &domain.TimeRange{After: &future},
			},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			orders, err := suite.repo.SearchOrders(t.Context(), tt.filter)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			require.Len(t, orders, len(tt.wantOrders))
			for i := range tt.wantOrders {
				assertOrder(t, tt.wantOrders[i], orders[i])
			}
		})
	}
}

func (suite *orderRepositorySuite) insertCustomer() domain.Customer {
	ctx := suite.T().Context()

	customerID, err := suite.customers.InsertCustomer(ctx, fakeCustomer())
	suite.Require().NoError(err)

	customer, err := suite.customers.FindCustomerByID(ctx, customerID)
	suite.Require().NoError(err)

	return customer
}

// fakeOrderItems inserts n products and returns one order line per product.
func (suite *orderRepositorySuite) fakeOrderItems(n int) []domain.OrderItem {
	ctx := suite.T().Context()

	return lo.Times(n, func(_ int) domain.OrderItem {
		product := fakeProduct()

		productID, err := suite.products.InsertProduct(ctx, product)
		suite.Require().NoError(err)

		return domain.OrderItem{
			ProductID: productID,
			Quantity:  gofakeit.Number(1, 5),
			Price:     product.Price,
		}
	})
}
