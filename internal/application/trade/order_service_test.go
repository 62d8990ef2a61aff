package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByRef(ctx context.Context, ref string) (*trade.Order, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateSupplierSync(ctx context.Context, id uuid.UUID, status trade.SupplierSyncStatus, syncedAt *time.Time, errSummary string) error {
	args := m.Called(ctx, id, status, syncedAt, errSummary)
	return args.Error(0)
}

// MockProductRepository implements the catalog reads needed at checkout
type MockProductRepository struct {
	mock.Mock
	catalog.ProductRepository
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

var _ trade.OrderRepository = (*MockOrderRepository)(nil)

func product(t *testing.T, name string, base int64) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "Supplements", decimal.NewFromInt(base), catalog.DefaultGlobalMarkup)
	require.NoError(t, err)
	return *p
}

func checkoutRequest(items ...CheckoutItemRequest) CheckoutRequest {
	return CheckoutRequest{
		Items:          items,
		Customer:       CustomerRequest{Name: "Naledi", Email: "naledi@example.com", Instructions: "Gate code 1234"},
		Address:        AddressRequest{Street: "1 Long St", City: "Cape Town"},
		ShippingMethod: "postnet",
		AgreedTerms:    true,
	}
}

func TestCheckout_SnapshotsCatalogPrices(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	svc := NewOrderService(NewNoOpTransactionScope(orders), orders, products, nil)

	whey := product(t, "Whey", 400) // sells at 500
	userID := uuid.New()

	products.On("FindByIDs", ctx, []uuid.UUID{whey.ID}).Return([]catalog.Product{whey}, nil)
	orders.On("Create", ctx, mock.AnythingOfType("*trade.Order")).Run(func(args mock.Arguments) {
		args.Get(1).(*trade.Order).AssignRef(7)
	}).Return(nil)

	res, err := svc.Checkout(ctx, &userID, checkoutRequest(CheckoutItemRequest{ProductID: whey.ID, Quantity: 2}))
	require.NoError(t, err)

	assert.Equal(t, "AP-0007", res.Ref)
	assert.True(t, decimal.NewFromInt(1000).Equal(res.Subtotal))
	assert.True(t, decimal.NewFromInt(140).Equal(res.ShippingCost))
	assert.True(t, decimal.NewFromInt(1140).Equal(res.Total))

	created := orders.Calls[0].Arguments.Get(1).(*trade.Order)
	assert.Equal(t, &userID, created.UserID)
	assert.Equal(t, "Gate code 1234", created.SpecialInstructions)
	assert.True(t, created.AgreedTerms)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "Whey", created.Items[0].ProductName)
	assert.True(t, decimal.NewFromInt(500).Equal(created.Items[0].Price))
}

func TestCheckout_RetriesOnRefConflict(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	svc := NewOrderService(NewNoOpTransactionScope(orders), orders, products, nil)
	whey := product(t, "Whey", 400)

	products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{whey}, nil)
	orders.On("Create", ctx, mock.Anything).Return(trade.ErrOrderRefConflict).Once()
	orders.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.Checkout(ctx, nil, checkoutRequest(CheckoutItemRequest{ProductID: whey.ID, Quantity: 1}))
	require.NoError(t, err)
	orders.AssertNumberOfCalls(t, "Create", 2)
}

func TestCheckout_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	svc := NewOrderService(NewNoOpTransactionScope(orders), orders, products, nil)
	whey := product(t, "Whey", 400)

	products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{whey}, nil)
	orders.On("Create", ctx, mock.Anything).Return(trade.ErrOrderRefConflict)

	_, err := svc.Checkout(ctx, nil, checkoutRequest(CheckoutItemRequest{ProductID: whey.ID, Quantity: 1}))
	assert.ErrorIs(t, err, trade.ErrOrderRefConflict)
	orders.AssertNumberOfCalls(t, "Create", maxRefAttempts)
}

func TestCheckout_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("sold out", func(t *testing.T) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		svc := NewOrderService(NewNoOpTransactionScope(orders), orders, products, nil)
		p := product(t, "Whey", 400)
		p.SoldOut = true
		products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{p}, nil)

		_, err := svc.Checkout(ctx, nil, checkoutRequest(CheckoutItemRequest{ProductID: p.ID, Quantity: 1}))
		assert.True(t, errors.Is(err, ErrProductSoldOut))
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		products := new(MockProductRepository)
		svc := NewOrderService(NewNoOpTransactionScope(nil), new(MockOrderRepository), products, nil)
		products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{}, nil)

		_, err := svc.Checkout(ctx, nil, checkoutRequest(CheckoutItemRequest{ProductID: uuid.New(), Quantity: 1}))
		assert.True(t, errors.Is(err, ErrProductUnavailable))
	})

	t.Run("below minimum", func(t *testing.T) {
		products := new(MockProductRepository)
		svc := NewOrderService(NewNoOpTransactionScope(nil), new(MockOrderRepository), products, nil)
		p := product(t, "Bar", 100) // sells at 125
		products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{p}, nil)

		_, err := svc.Checkout(ctx, nil, checkoutRequest(CheckoutItemRequest{ProductID: p.ID, Quantity: 1}))
		assert.ErrorIs(t, err, trade.ErrBelowMinimumOrder)
	})
}

func newOrder(t *testing.T) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(trade.Customer{Name: "Naledi"}, trade.Address{}, trade.ShippingFastway, []trade.OrderLine{
		{ProductID: uuid.New(), ProductName: "Whey", Quantity: 1, Price: decimal.NewFromInt(500)},
	})
	require.NoError(t, err)
	o.AssignRef(3)
	return o
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := NewOrderService(NewNoOpTransactionScope(orders), orders, new(MockProductRepository), nil)
	o := newOrder(t)

	orders.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)
	orders.On("Save", ctx, o).Return(nil)

	resp, err := svc.UpdateStatus(ctx, o.ID, "Payment Received")
	require.NoError(t, err)
	assert.Equal(t, "Paid", resp.Status)
	assert.Equal(t, "pending", resp.SupplierSyncStatus)

	_, err = svc.UpdateStatus(ctx, o.ID, "Teleported")
	assert.True(t, errors.Is(err, trade.ErrInvalidOrderStatus))
	orders.AssertNumberOfCalls(t, "Save", 1)
}

func TestUpdateItems(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := NewOrderService(NewNoOpTransactionScope(orders), orders, new(MockProductRepository), nil)
	o := newOrder(t)

	orders.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)
	orders.On("Save", ctx, o).Return(nil)

	ship := decimal.Zero
	resp, err := svc.UpdateItems(ctx, o.ID, UpdateItemsRequest{
		Items:        []ItemEditRequest{{ItemID: o.Items[0].ID, Quantity: 4, Price: decimal.NewFromInt(450)}},
		ShippingCost: &ship,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1800).Equal(resp.Subtotal))
	assert.True(t, decimal.NewFromInt(1800).Equal(resp.Total))
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := NewOrderService(NewNoOpTransactionScope(orders), orders, new(MockProductRepository), nil)
	userID := uuid.New()
	o := newOrder(t)

	orders.On("FindAll", ctx, mock.MatchedBy(func(f trade.OrderFilter) bool {
		return f.UserID != nil && *f.UserID == userID
	})).Return([]trade.Order{*o}, nil)

	list, err := svc.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "AP-0003", list[0].Ref)
}
