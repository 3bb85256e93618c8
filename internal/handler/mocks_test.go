package handler

import (
	"context"
	"net/http"

	"menuhub/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) order(args mock.Arguments) (*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context) (*model.Order, error) {
	return m.order(m.Called(ctx))
}

func (m *MockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return m.order(m.Called(ctx, id))
}

func (m *MockOrderService) ListOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) AddItemToOrder(ctx context.Context, orderID uuid.UUID, menuItemID int64, quantity int) (*model.Order, error) {
	return m.order(m.Called(ctx, orderID, menuItemID, quantity))
}

func (m *MockOrderService) AddItemToOrderByName(ctx context.Context, orderID uuid.UUID, name string, quantity int) (*model.Order, error) {
	return m.order(m.Called(ctx, orderID, name, quantity))
}

func (m *MockOrderService) RemoveItemFromOrder(ctx context.Context, orderID uuid.UUID, menuItemID int64, quantity int) (*model.Order, error) {
	return m.order(m.Called(ctx, orderID, menuItemID, quantity))
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return m.order(m.Called(ctx, orderID))
}

func (m *MockOrderService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return m.order(m.Called(ctx, orderID))
}

func (m *MockOrderService) GetOrderTotal(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderService) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderLine), args.Error(1)
}

func (m *MockOrderService) GetItemQuantity(ctx context.Context, orderID uuid.UUID, menuItemID int64) (int, error) {
	args := m.Called(ctx, orderID, menuItemID)
	return args.Int(0), args.Error(1)
}

// MockMenuService is a mock implementation of service.MenuService.
type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) item(args mock.Arguments) (*model.MenuItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuService) items(args mock.Arguments) ([]model.MenuItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuService) FindByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	return m.item(m.Called(ctx, id))
}

func (m *MockMenuService) FindByName(ctx context.Context, name string) (*model.MenuItem, error) {
	return m.item(m.Called(ctx, name))
}

func (m *MockMenuService) FindClosest(ctx context.Context, name string) (*model.MenuItem, error) {
	return m.item(m.Called(ctx, name))
}

func (m *MockMenuService) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	return m.items(m.Called(ctx))
}

func (m *MockMenuService) ListByCategory(ctx context.Context, category string) ([]model.MenuItem, error) {
	return m.items(m.Called(ctx, category))
}

func (m *MockMenuService) CreateMenuItem(ctx context.Context, name, category string, price decimal.Decimal) (*model.MenuItem, error) {
	return m.item(m.Called(ctx, name, category, price))
}

// MockInventoryService is a mock implementation of service.InventoryService.
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) record(args mock.Arguments) (*model.InventoryRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) records(args mock.Arguments) ([]model.InventoryRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryRecord), args.Error(1)
}

func (m *MockInventoryService) GetQuantity(ctx context.Context, menuItemID int64) (int, error) {
	args := m.Called(ctx, menuItemID)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryService) GetRecord(ctx context.Context, menuItemID int64) (*model.InventoryRecord, error) {
	return m.record(m.Called(ctx, menuItemID))
}

func (m *MockInventoryService) CheckAvailability(ctx context.Context, menuItemID int64, required int) (bool, error) {
	args := m.Called(ctx, menuItemID, required)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) AddStock(ctx context.Context, menuItemID int64, amount int) (*model.InventoryRecord, error) {
	return m.record(m.Called(ctx, menuItemID, amount))
}

func (m *MockInventoryService) RemoveStock(ctx context.Context, menuItemID int64, amount int) (*model.InventoryRecord, error) {
	return m.record(m.Called(ctx, menuItemID, amount))
}

func (m *MockInventoryService) BulkAdjust(ctx context.Context, deltas map[int64]int) (map[int64]bool, error) {
	args := m.Called(ctx, deltas)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockInventoryService) ListItemsBelowThreshold(ctx context.Context, threshold int) ([]model.InventoryRecord, error) {
	return m.records(m.Called(ctx, threshold))
}

func (m *MockInventoryService) ListLowStock(ctx context.Context) ([]model.InventoryRecord, error) {
	return m.records(m.Called(ctx))
}

func (m *MockInventoryService) CreateInventory(ctx context.Context, menuItemID int64, quantity, threshold int) (*model.InventoryRecord, error) {
	return m.record(m.Called(ctx, menuItemID, quantity, threshold))
}

// withURLParams attaches chi path parameters as key/value pairs.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
