package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a customer order.
// Lines are kept in insertion order with at most one line per menu item.
type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Status    OrderStatus `json:"status" db:"status"`
	Lines     []OrderLine `json:"lines"`
	Version   int         `json:"-" db:"version"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderLine represents a single menu item and its quantity in an order.
// PriceAtTimeOfOrder is captured when the line is first created and never changes.
type OrderLine struct {
	MenuItemID         int64           `json:"menuItemId" db:"menu_item_id"`
	Name               string          `json:"name" db:"name"`
	Quantity           int             `json:"quantity" db:"quantity"`
	PriceAtTimeOfOrder decimal.Decimal `json:"priceAtTimeOfOrder" db:"price_at_time_of_order"`
}

// Subtotal returns quantity times the captured price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.PriceAtTimeOfOrder.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewOrder allocates an empty pending order.
func NewOrder() *Order {
	now := time.Now().UTC()
	return &Order{
		ID:        uuid.New(),
		Status:    OrderStatusPending,
		Lines:     []OrderLine{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsModifiable reports whether lines may still be added or removed.
func (o *Order) IsModifiable() bool {
	return o.Status == OrderStatusPending
}

// AddLine adds quantity units of item, merging into an existing line when present.
func (o *Order) AddLine(item MenuItem, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !o.IsModifiable() {
		return Errorf(ErrCodeNotModifiable, "order %s is %s and cannot be modified", o.ID, o.Status)
	}

	if i := o.lineIndex(item.ID); i >= 0 {
		o.Lines[i].Quantity += quantity
	} else {
		o.Lines = append(o.Lines, OrderLine{
			MenuItemID:         item.ID,
			Name:               item.Name,
			Quantity:           quantity,
			PriceAtTimeOfOrder: item.Price,
		})
	}

	o.touch()
	return nil
}

// RemoveLine removes up to quantity units of the given menu item and returns
// how many units were actually taken off the order. Asking for at least the
// line's quantity deletes the whole line.
func (o *Order) RemoveLine(menuItemID int64, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	if !o.IsModifiable() {
		return 0, Errorf(ErrCodeNotModifiable, "order %s is %s and cannot be modified", o.ID, o.Status)
	}

	i := o.lineIndex(menuItemID)
	if i < 0 {
		return 0, Errorf(ErrCodeItemNotInOrder, "menu item %d is not in order %s", menuItemID, o.ID)
	}

	removed := quantity
	if quantity >= o.Lines[i].Quantity {
		removed = o.Lines[i].Quantity
		o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
	} else {
		o.Lines[i].Quantity -= quantity
	}

	o.touch()
	return removed, nil
}

// ItemQuantity returns the quantity ordered for a menu item, or zero.
func (o *Order) ItemQuantity(menuItemID int64) int {
	if i := o.lineIndex(menuItemID); i >= 0 {
		return o.Lines[i].Quantity
	}
	return 0
}

// TotalPrice sums the line subtotals.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Complete marks a pending, non-empty order as completed.
func (o *Order) Complete() error {
	if o.Status != OrderStatusPending {
		return Errorf(ErrCodeInvalidTransition, "cannot complete order %s in status %s", o.ID, o.Status)
	}
	if len(o.Lines) == 0 {
		return Errorf(ErrCodeEmptyOrder, "order %s has no items", o.ID)
	}
	o.Status = OrderStatusCompleted
	o.touch()
	return nil
}

// Cancel marks a pending order as cancelled.
func (o *Order) Cancel() error {
	if o.Status != OrderStatusPending {
		return Errorf(ErrCodeInvalidTransition, "cannot cancel order %s in status %s", o.ID, o.Status)
	}
	o.Status = OrderStatusCancelled
	o.touch()
	return nil
}

// Clone returns a deep copy that shares no line storage with o.
func (o *Order) Clone() *Order {
	c := *o
	c.Lines = make([]OrderLine, len(o.Lines))
	copy(c.Lines, o.Lines)
	return &c
}

func (o *Order) lineIndex(menuItemID int64) int {
	for i, line := range o.Lines {
		if line.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}
