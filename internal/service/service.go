package service

import (
	"context"

	"menuhub/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuService is the read-mostly menu catalog.
type MenuService interface {
	// FindByID returns the menu item or model.ErrMenuItemNotFound.
	FindByID(ctx context.Context, id int64) (*model.MenuItem, error)

	// FindByName matches the trimmed name case-insensitively.
	FindByName(ctx context.Context, name string) (*model.MenuItem, error)

	// FindClosest returns the exact match, or else the most similar item name
	// scoring at least the fuzzy cutoff.
	FindClosest(ctx context.Context, name string) (*model.MenuItem, error)

	// ListMenu returns every item grouped by category.
	ListMenu(ctx context.Context) ([]model.MenuItem, error)

	// ListByCategory returns the items of one category.
	ListByCategory(ctx context.Context, category string) ([]model.MenuItem, error)

	// CreateMenuItem validates and stores a new item.
	CreateMenuItem(ctx context.Context, name, category string, price decimal.Decimal) (*model.MenuItem, error)
}

// InventoryService is the stock ledger. Quantities never go negative.
type InventoryService interface {
	// GetQuantity returns the stock on hand, zero when no record exists.
	GetQuantity(ctx context.Context, menuItemID int64) (int, error)

	// GetRecord returns the full record or model.ErrInventoryNotFound.
	GetRecord(ctx context.Context, menuItemID int64) (*model.InventoryRecord, error)

	// CheckAvailability reports whether at least required units are on hand.
	CheckAvailability(ctx context.Context, menuItemID int64, required int) (bool, error)

	// AddStock increments stock, creating the record on first use.
	AddStock(ctx context.Context, menuItemID int64, amount int) (*model.InventoryRecord, error)

	// RemoveStock decrements stock in one atomic check-and-decrement.
	RemoveStock(ctx context.Context, menuItemID int64, amount int) (*model.InventoryRecord, error)

	// BulkAdjust applies each delta independently and reports per-item success.
	BulkAdjust(ctx context.Context, deltas map[int64]int) (map[int64]bool, error)

	// ListItemsBelowThreshold returns records with quantity strictly below threshold.
	ListItemsBelowThreshold(ctx context.Context, threshold int) ([]model.InventoryRecord, error)

	// ListLowStock returns records at or below their own threshold.
	ListLowStock(ctx context.Context) ([]model.InventoryRecord, error)

	// CreateInventory creates a record explicitly. A zero threshold uses the default.
	CreateInventory(ctx context.Context, menuItemID int64, quantity, threshold int) (*model.InventoryRecord, error)
}

// OrderService coordinates orders with the inventory ledger.
type OrderService interface {
	// CreateOrder allocates an empty pending order.
	CreateOrder(ctx context.Context) (*model.Order, error)

	// GetOrder returns the order or model.ErrOrderNotFound.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListOrders returns orders newest first.
	ListOrders(ctx context.Context, limit, offset int) ([]model.Order, error)

	// AddItemToOrder reserves stock and then adds it to the order.
	AddItemToOrder(ctx context.Context, orderID uuid.UUID, menuItemID int64, quantity int) (*model.Order, error)

	// AddItemToOrderByName is AddItemToOrder with a catalog name lookup.
	AddItemToOrderByName(ctx context.Context, orderID uuid.UUID, name string, quantity int) (*model.Order, error)

	// RemoveItemFromOrder takes units off the order and then releases them.
	RemoveItemFromOrder(ctx context.Context, orderID uuid.UUID, menuItemID int64, quantity int) (*model.Order, error)

	// CancelOrder cancels the order and releases every line back to stock.
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// CompleteOrder marks a non-empty pending order as completed.
	CompleteOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// GetOrderTotal returns the sum of line subtotals.
	GetOrderTotal(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)

	// GetOrderItems returns the order lines in insertion order.
	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error)

	// GetItemQuantity returns how many units of an item the order holds.
	GetItemQuantity(ctx context.Context, orderID uuid.UUID, menuItemID int64) (int, error)
}
