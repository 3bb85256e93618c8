package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types.
const (
	TypeLowStock      = "inventory.low_stock"
	TypeReleaseFailed = "inventory.release_failed"
	TypeOrderCreated  = "order.created"
	TypeOrderComplete = "order.completed"
	TypeOrderCancel   = "order.cancelled"
)

// Event is an operator-facing notification. Events never drive business logic.
type Event struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id,omitempty"`
	MenuItemID int64     `json:"menu_item_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key is the partitioning key: the order when present, otherwise the menu item.
func (e Event) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	if e.MenuItemID != 0 {
		return "item-" + itoa(e.MenuItemID)
	}
	return e.Type
}

// LowStock builds an inventory.low_stock event.
func LowStock(menuItemID int64, quantity int) Event {
	return Event{Type: TypeLowStock, MenuItemID: menuItemID, Quantity: quantity, OccurredAt: time.Now().UTC()}
}

// ReleaseFailed builds an inventory.release_failed event for reconciliation.
func ReleaseFailed(orderID uuid.UUID, menuItemID int64, quantity int, cause error) Event {
	e := Event{
		Type:       TypeReleaseFailed,
		OrderID:    orderID.String(),
		MenuItemID: menuItemID,
		Quantity:   quantity,
		OccurredAt: time.Now().UTC(),
	}
	if cause != nil {
		e.Reason = cause.Error()
	}
	return e
}

// OrderStatus builds an order lifecycle event.
func OrderStatus(eventType string, orderID uuid.UUID) Event {
	return Event{Type: eventType, OrderID: orderID.String(), OccurredAt: time.Now().UTC()}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type logPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher returns a Publisher that writes events to the log.
func NewLogPublisher(logger zerolog.Logger) Publisher {
	return &logPublisher{logger: logger.With().Str("component", "events").Logger()}
}

func (p *logPublisher) Publish(_ context.Context, event Event) error {
	level := zerolog.InfoLevel
	if event.Type == TypeReleaseFailed {
		level = zerolog.WarnLevel
	}
	p.logger.WithLevel(level).
		Str("event_type", event.Type).
		Str("order_id", event.OrderID).
		Int64("menu_item_id", event.MenuItemID).
		Int("quantity", event.Quantity).
		Str("reason", event.Reason).
		Msg("event published")
	return nil
}

func (p *logPublisher) Close() error { return nil }

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }
