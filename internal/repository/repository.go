package repository

import (
	"context"

	"menuhub/internal/model"

	"github.com/google/uuid"
)

// MenuRepository defines the interface for menu item data access operations.
// Lookups return (nil, nil) when no item matches.
type MenuRepository interface {
	// GetAll retrieves all menu items ordered by category and name.
	GetAll(ctx context.Context) ([]model.MenuItem, error)

	// GetByCategory retrieves the menu items of one category ordered by name.
	GetByCategory(ctx context.Context, category model.Category) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item by its ID.
	GetByID(ctx context.Context, id int64) (*model.MenuItem, error)

	// GetByName retrieves a single menu item by case-insensitive name.
	GetByName(ctx context.Context, name string) (*model.MenuItem, error)

	// Create inserts a menu item and assigns its ID.
	// A duplicate name fails with model.ErrConflict.
	Create(ctx context.Context, item *model.MenuItem) error
}

// InventoryRepository defines atomic stock primitives.
// Every mutating method is a single atomic read-modify-write on one record.
type InventoryRepository interface {
	// Get retrieves the record for a menu item, or (nil, nil) if none exists.
	Get(ctx context.Context, menuItemID int64) (*model.InventoryRecord, error)

	// Create inserts a new record. An existing record fails with model.ErrConflict.
	Create(ctx context.Context, record *model.InventoryRecord) error

	// Increment adds amount to the record, creating it with defaultThreshold first if absent.
	Increment(ctx context.Context, menuItemID int64, amount, defaultThreshold int) (*model.InventoryRecord, error)

	// DecrementIfAvailable subtracts amount only when at least amount is on hand.
	// It reports false, without changing anything, when stock is short or the record is missing.
	DecrementIfAvailable(ctx context.Context, menuItemID int64, amount int) (*model.InventoryRecord, bool, error)

	// ListBelow returns records whose quantity is strictly below threshold.
	ListBelow(ctx context.Context, threshold int) ([]model.InventoryRecord, error)

	// ListLowStock returns records at or below their own low-stock threshold.
	ListLowStock(ctx context.Context) ([]model.InventoryRecord, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create inserts a new order together with its lines.
	Create(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order by its ID along with its lines, or (nil, nil).
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetAll retrieves orders, newest first, with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Order, error)

	// Update persists status and lines when order.Version still matches the
	// stored version, then bumps order.Version. A stale version fails with
	// model.ErrConflict and leaves storage untouched.
	Update(ctx context.Context, order *model.Order) error
}
