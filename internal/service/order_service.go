package service

import (
	"context"
	"fmt"

	"menuhub/internal/events"
	"menuhub/internal/lock"
	"menuhub/internal/metrics"
	"menuhub/internal/model"
	"menuhub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// Order listing bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// orderService implements OrderService.
//
// Adding an item reserves stock before the order is written and gives the
// stock back if the write fails. Removing and cancelling write the order
// first and then release stock best-effort: a failed release is logged,
// counted and published, but never undoes the order change.
type orderService struct {
	orders    repository.OrderRepository
	menu      MenuService
	inventory InventoryService
	locker    lock.Locker
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	menu MenuService,
	inventory InventoryService,
	locker lock.Locker,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) OrderService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &orderService{
		orders:    orders,
		menu:      menu,
		inventory: inventory,
		locker:    locker,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder creates an empty pending order.
func (s *orderService) CreateOrder(ctx context.Context) (order *model.Order, err error) {
	ctx, end := startOp(ctx, s.metrics, "order.create")
	defer func() { end(err) }()

	order = model.NewOrder()
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().Str("order_id", order.ID.String()).Msg("order created")
	s.publish(ctx, events.OrderStatus(events.TypeOrderCreated, order.ID))
	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.Errorf(model.ErrCodeOrderNotFound, "order %s not found", id)
	}
	return order, nil
}

// ListOrders lists orders newest first. A zero limit selects the default.
func (s *orderService) ListOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		return nil, model.Errorf(model.ErrCodeInvalidArgument, "limit must be between 1 and %d", MaxListLimit)
	}
	if offset < 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidArgument, "offset cannot be negative")
	}

	orders, err := s.orders.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// AddItemToOrder reserves quantity units and adds them to the order.
func (s *orderService) AddItemToOrder(ctx context.Context, orderID uuid.UUID, menuItemID int64, quantity int) (order *model.Order, err error) {
	if !model.ValidQuantity(quantity) {
		return nil, model.ErrInvalidQuantity
	}
	if menuItemID <= 0 {
		return nil, model.Errorf(model.ErrCodeInvalidArgument, "invalid menu item id %d", menuItemID)
	}

	ctx, end := startOp(ctx, s.metrics, "order.add_item",
		attribute.String("order_id", orderID.String()),
		attribute.Int64("menu_item_id", menuItemID),
		attribute.Int("quantity", quantity),
	)
	defer func() { end(err) }()

	release, err := s.acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err = s.loadModifiable(ctx, orderID)
	if err != nil {
		return nil, err
	}

	item, err := s.menu.FindByID(ctx, menuItemID)
	if err != nil {
		return nil, err
	}

	// Reserve first: a failed reservation leaves the order untouched.
	if _, err := s.inventory.RemoveStock(ctx, item.ID, quantity); err != nil {
		return nil, err
	}
	s.metrics.AddReserved(quantity)

	err = order.AddLine(*item, quantity)
	if err == nil {
		err = s.orders.Update(ctx, order)
	}
	if err != nil {
		s.logger.Warn().Err(err).
			Str("order_id", orderID.String()).
			Int64("menu_item_id", item.ID).
			Int("quantity", quantity).
			Msg("order update failed after reservation, compensating")
		s.compensate(ctx, orderID, item.ID, quantity)
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Int64("menu_item_id", item.ID).
		Int("quantity", quantity).
		Int("line_quantity", order.ItemQuantity(item.ID)).
		Msg("item added to order")
	return order, nil
}

// AddItemToOrderByName resolves name in the catalog and adds the item.
func (s *orderService) AddItemToOrderByName(ctx context.Context, orderID uuid.UUID, name string, quantity int) (*model.Order, error) {
	if !model.ValidQuantity(quantity) {
		return nil, model.ErrInvalidQuantity
	}

	item, err := s.menu.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.AddItemToOrder(ctx, orderID, item.ID, quantity)
}

// RemoveItemFromOrder removes up to quantity units and releases what was removed.
func (s *orderService) RemoveItemFromOrder(ctx context.Context, orderID uuid.UUID, menuItemID int64, quantity int) (order *model.Order, err error) {
	if !model.ValidQuantity(quantity) {
		return nil, model.ErrInvalidQuantity
	}

	ctx, end := startOp(ctx, s.metrics, "order.remove_item",
		attribute.String("order_id", orderID.String()),
		attribute.Int64("menu_item_id", menuItemID),
		attribute.Int("quantity", quantity),
	)
	defer func() { end(err) }()

	release, err := s.acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err = s.loadModifiable(ctx, orderID)
	if err != nil {
		return nil, err
	}

	removed, err := order.RemoveLine(menuItemID, quantity)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Warn().Err(err).
			Str("order_id", orderID.String()).
			Int64("menu_item_id", menuItemID).
			Msg("failed to save order after removing item")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.releaseStock(ctx, orderID, menuItemID, removed)

	s.logger.Info().
		Str("order_id", orderID.String()).
		Int64("menu_item_id", menuItemID).
		Int("removed", removed).
		Msg("item removed from order")
	return order, nil
}

// CancelOrder cancels a pending order and releases all of its lines.
func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (order *model.Order, err error) {
	ctx, end := startOp(ctx, s.metrics, "order.cancel", attribute.String("order_id", orderID.String()))
	defer func() { end(err) }()

	release, err := s.acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err = s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID.String()).Msg("failed to save cancelled order")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	for _, line := range order.Lines {
		s.releaseStock(ctx, orderID, line.MenuItemID, line.Quantity)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Int("lines", len(order.Lines)).
		Msg("order cancelled")
	s.publish(ctx, events.OrderStatus(events.TypeOrderCancel, orderID))
	return order, nil
}

// CompleteOrder completes a pending order. Reserved stock becomes consumed.
func (s *orderService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (order *model.Order, err error) {
	ctx, end := startOp(ctx, s.metrics, "order.complete", attribute.String("order_id", orderID.String()))
	defer func() { end(err) }()

	release, err := s.acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err = s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Complete(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID.String()).Msg("failed to save completed order")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("total", order.TotalPrice().StringFixed(2)).
		Msg("order completed")
	s.publish(ctx, events.OrderStatus(events.TypeOrderComplete, orderID))
	return order, nil
}

// GetOrderTotal returns the order total.
func (s *orderService) GetOrderTotal(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	return order.TotalPrice(), nil
}

// GetOrderItems returns the order lines.
func (s *orderService) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order.Lines, nil
}

// GetItemQuantity returns the units of menuItemID held by the order.
func (s *orderService) GetItemQuantity(ctx context.Context, orderID uuid.UUID, menuItemID int64) (int, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}
	return order.ItemQuantity(menuItemID), nil
}

func (s *orderService) acquire(ctx context.Context, orderID uuid.UUID) (lock.Releaser, error) {
	release, err := s.locker.Acquire(ctx, lock.OrderKey(orderID.String()))
	if err != nil {
		if model.CodeOf(err) == model.ErrCodeBusy {
			s.metrics.IncLockTimeout()
		}
		s.logger.Warn().Err(err).Str("order_id", orderID.String()).Msg("failed to lock order")
		return nil, err
	}
	return release, nil
}

func (s *orderService) loadModifiable(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsModifiable() {
		return nil, model.Errorf(model.ErrCodeNotModifiable, "order %s is %s and cannot be modified", orderID, order.Status)
	}
	return order, nil
}

// compensate returns a reservation whose order update failed. It runs on a
// context detached from the caller so a cancelled request still restores stock.
func (s *orderService) compensate(ctx context.Context, orderID uuid.UUID, menuItemID int64, quantity int) {
	detached := context.WithoutCancel(ctx)
	if _, err := s.inventory.AddStock(detached, menuItemID, quantity); err != nil {
		s.metrics.IncCompensation(false)
		s.logger.Error().Err(err).
			Str("order_id", orderID.String()).
			Int64("menu_item_id", menuItemID).
			Int("quantity", quantity).
			Msg("failed to compensate reservation")
		s.publish(detached, events.ReleaseFailed(orderID, menuItemID, quantity, err))
		return
	}
	s.metrics.IncCompensation(true)
	s.metrics.AddReleased(quantity)
}

// releaseStock gives quantity back to inventory best-effort.
func (s *orderService) releaseStock(ctx context.Context, orderID uuid.UUID, menuItemID int64, quantity int) {
	if quantity <= 0 {
		return
	}

	detached := context.WithoutCancel(ctx)
	if _, err := s.inventory.AddStock(detached, menuItemID, quantity); err != nil {
		s.metrics.IncReleaseFailure()
		s.logger.Error().Err(err).
			Str("order_id", orderID.String()).
			Int64("menu_item_id", menuItemID).
			Int("quantity", quantity).
			Msg("failed to release stock, needs reconciliation")
		s.publish(detached, events.ReleaseFailed(orderID, menuItemID, quantity, err))
		return
	}
	s.metrics.AddReleased(quantity)
}

func (s *orderService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error().Err(err).
			Str("event_type", event.Type).
			Str("order_id", event.OrderID).
			Msg("failed to publish event")
	}
}
