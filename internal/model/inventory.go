package model

import (
	"math"
	"time"
)

const (
	// DefaultLowStockThreshold is used when a record is created without an explicit threshold.
	DefaultLowStockThreshold = 5

	// MaxQuantity bounds stock levels and per-call amounts to the INTEGER column range.
	MaxQuantity = math.MaxInt32
)

// ValidQuantity reports whether n is a usable amount for a single stock or order operation.
func ValidQuantity(n int) bool {
	return n > 0 && n <= MaxQuantity
}

// InventoryRecord tracks the stock on hand for one menu item.
type InventoryRecord struct {
	MenuItemID        int64     `json:"menuItemId" db:"menu_item_id"`
	Quantity          int       `json:"quantity" db:"quantity"`
	LowStockThreshold int       `json:"lowStockThreshold" db:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// NewInventoryRecord validates and builds an inventory record.
// A zero threshold selects DefaultLowStockThreshold.
func NewInventoryRecord(menuItemID int64, quantity, threshold int) (*InventoryRecord, error) {
	if menuItemID <= 0 {
		return nil, Errorf(ErrCodeInvalidArgument, "invalid menu item id %d", menuItemID)
	}
	if quantity < 0 || quantity > MaxQuantity {
		return nil, Errorf(ErrCodeInvalidArgument, "initial quantity must be between 0 and %d", MaxQuantity)
	}
	if threshold == 0 {
		threshold = DefaultLowStockThreshold
	}
	if threshold < 0 {
		return nil, NewDomainError(ErrCodeInvalidArgument, "low stock threshold must be positive")
	}

	return &InventoryRecord{
		MenuItemID:        menuItemID,
		Quantity:          quantity,
		LowStockThreshold: threshold,
		UpdatedAt:         time.Now().UTC(),
	}, nil
}

// IsSoldOut reports whether no stock is left.
func (r InventoryRecord) IsSoldOut() bool {
	return r.Quantity == 0
}

// IsLowStock reports whether stock is at or below the record's threshold.
func (r InventoryRecord) IsLowStock() bool {
	return r.Quantity <= r.LowStockThreshold
}
