package seed

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Document is one initial-data file.
type Document struct {
	// MenuItems are created in file order.
	MenuItems []MenuItem `json:"menu_items" validate:"dive"`

	// Inventory overrides the starting quantity per item name.
	Inventory map[string]int `json:"inventory,omitempty" validate:"dive,gte=0"`

	// InitialInventoryQuantity is the starting quantity for items without an override.
	InitialInventoryQuantity int `json:"initial_inventory_quantity" validate:"gte=0"`
}

// MenuItem describes a catalog entry to create.
type MenuItem struct {
	Name              string          `json:"name" validate:"required,max=100"`
	Category          string          `json:"category" validate:"required,oneof=appetizer main dessert beverage"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold int             `json:"low_stock_threshold,omitempty" validate:"gte=0"`
}

// QuantityFor returns the starting stock for the named item.
func (d *Document) QuantityFor(name string) int {
	if qty, ok := d.Inventory[name]; ok {
		return qty
	}
	for key, qty := range d.Inventory {
		if strings.EqualFold(strings.TrimSpace(key), strings.TrimSpace(name)) {
			return qty
		}
	}
	return d.InitialInventoryQuantity
}

// Loader reads a seed document from a location.
type Loader interface {
	Load(ctx context.Context, path string) (*Document, error)
}
