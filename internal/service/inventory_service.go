package service

import (
	"context"
	"fmt"
	"sync"

	"menuhub/internal/events"
	"menuhub/internal/metrics"
	"menuhub/internal/model"
	"menuhub/internal/repository"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// bulkAdjustConcurrency caps parallel entries in BulkAdjust.
const bulkAdjustConcurrency = 8

// inventoryService implements InventoryService.
type inventoryService struct {
	repo             repository.InventoryRepository
	menu             repository.MenuRepository
	defaultThreshold int
	publisher        events.Publisher
	metrics          *metrics.Metrics
	logger           zerolog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(
	repo repository.InventoryRepository,
	menu repository.MenuRepository,
	defaultThreshold int,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) InventoryService {
	if defaultThreshold <= 0 {
		defaultThreshold = model.DefaultLowStockThreshold
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &inventoryService{
		repo:             repo,
		menu:             menu,
		defaultThreshold: defaultThreshold,
		publisher:        publisher,
		metrics:          m,
		logger:           logger.With().Str("service", "inventory").Logger(),
	}
}

// GetQuantity returns the quantity on hand.
func (s *inventoryService) GetQuantity(ctx context.Context, menuItemID int64) (int, error) {
	rec, err := s.repo.Get(ctx, menuItemID)
	if err != nil {
		s.logger.Error().Err(err).Int64("menu_item_id", menuItemID).Msg("failed to get inventory")
		return 0, fmt.Errorf("failed to get inventory: %w", err)
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Quantity, nil
}

// GetRecord returns the inventory record.
func (s *inventoryService) GetRecord(ctx context.Context, menuItemID int64) (*model.InventoryRecord, error) {
	rec, err := s.repo.Get(ctx, menuItemID)
	if err != nil {
		s.logger.Error().Err(err).Int64("menu_item_id", menuItemID).Msg("failed to get inventory")
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if rec == nil {
		return nil, model.Errorf(model.ErrCodeInventoryNotFound, "no inventory for menu item %d", menuItemID)
	}
	return rec, nil
}

// CheckAvailability reports whether required units are on hand.
func (s *inventoryService) CheckAvailability(ctx context.Context, menuItemID int64, required int) (bool, error) {
	if !model.ValidQuantity(required) {
		return false, model.ErrInvalidQuantity
	}

	qty, err := s.GetQuantity(ctx, menuItemID)
	if err != nil {
		return false, err
	}
	return qty >= required, nil
}

// AddStock increments stock for a known menu item.
func (s *inventoryService) AddStock(ctx context.Context, menuItemID int64, amount int) (rec *model.InventoryRecord, err error) {
	if !model.ValidQuantity(amount) {
		return nil, model.Errorf(model.ErrCodeInvalidArgument, "amount must be between 1 and %d, got %d", model.MaxQuantity, amount)
	}

	ctx, end := startOp(ctx, s.metrics, "inventory.add_stock",
		attribute.Int64("menu_item_id", menuItemID),
		attribute.Int("amount", amount),
	)
	defer func() { end(err) }()

	if err := s.ensureMenuItem(ctx, menuItemID); err != nil {
		return nil, err
	}

	rec, err = s.repo.Increment(ctx, menuItemID, amount, s.defaultThreshold)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("menu_item_id", menuItemID).
			Int("amount", amount).
			Msg("failed to add stock")
		return nil, fmt.Errorf("failed to add stock: %w", err)
	}

	s.logger.Debug().
		Int64("menu_item_id", menuItemID).
		Int("amount", amount).
		Int("quantity", rec.Quantity).
		Msg("stock added")
	return rec, nil
}

// RemoveStock decrements stock when enough is on hand.
func (s *inventoryService) RemoveStock(ctx context.Context, menuItemID int64, amount int) (rec *model.InventoryRecord, err error) {
	if !model.ValidQuantity(amount) {
		return nil, model.Errorf(model.ErrCodeInvalidArgument, "amount must be between 1 and %d, got %d", model.MaxQuantity, amount)
	}

	ctx, end := startOp(ctx, s.metrics, "inventory.remove_stock",
		attribute.Int64("menu_item_id", menuItemID),
		attribute.Int("amount", amount),
	)
	defer func() { end(err) }()

	rec, ok, err := s.repo.DecrementIfAvailable(ctx, menuItemID, amount)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("menu_item_id", menuItemID).
			Int("amount", amount).
			Msg("failed to remove stock")
		return nil, fmt.Errorf("failed to remove stock: %w", err)
	}
	if !ok {
		available, qErr := s.GetQuantity(ctx, menuItemID)
		if qErr != nil {
			s.logger.Debug().Err(qErr).
				Int64("menu_item_id", menuItemID).
				Msg("could not read stock after rejected removal")
			available = 0
		}
		s.logger.Info().
			Int64("menu_item_id", menuItemID).
			Int("requested", amount).
			Int("available", available).
			Msg("insufficient stock")
		return nil, model.Errorf(model.ErrCodeInsufficientStock,
			"insufficient stock for menu item %d: requested %d, available %d", menuItemID, amount, available)
	}

	if rec.IsLowStock() {
		s.alertLowStock(ctx, rec)
	}
	return rec, nil
}

// alertLowStock notifies operators. Failures never affect the caller.
func (s *inventoryService) alertLowStock(ctx context.Context, rec *model.InventoryRecord) {
	s.metrics.IncLowStock()
	s.logger.Warn().
		Int64("menu_item_id", rec.MenuItemID).
		Int("quantity", rec.Quantity).
		Int("threshold", rec.LowStockThreshold).
		Msg("low stock")

	if err := s.publisher.Publish(context.WithoutCancel(ctx), events.LowStock(rec.MenuItemID, rec.Quantity)); err != nil {
		s.logger.Error().Err(err).Int64("menu_item_id", rec.MenuItemID).Msg("failed to publish low stock event")
	}
}

// BulkAdjust routes each delta by sign. Entries are independent.
func (s *inventoryService) BulkAdjust(ctx context.Context, deltas map[int64]int) (map[int64]bool, error) {
	if len(deltas) == 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidArgument, "no adjustments given")
	}

	var (
		mu      sync.Mutex
		results = make(map[int64]bool, len(deltas))
	)

	var g errgroup.Group
	g.SetLimit(bulkAdjustConcurrency)

	for id, delta := range deltas {
		g.Go(func() error {
			var err error
			switch {
			case delta > 0:
				_, err = s.AddStock(ctx, id, delta)
			case delta < 0:
				_, err = s.RemoveStock(ctx, id, -delta)
			default:
				err = model.Errorf(model.ErrCodeInvalidArgument, "zero adjustment for menu item %d", id)
			}

			if err != nil {
				s.logger.Warn().Err(err).
					Int64("menu_item_id", id).
					Int("delta", delta).
					Msg("bulk adjustment entry failed")
			}

			mu.Lock()
			results[id] = err == nil
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// ListItemsBelowThreshold returns records with quantity below threshold.
func (s *inventoryService) ListItemsBelowThreshold(ctx context.Context, threshold int) ([]model.InventoryRecord, error) {
	if threshold <= 0 {
		return nil, model.Errorf(model.ErrCodeInvalidArgument, "threshold must be greater than zero, got %d", threshold)
	}

	recs, err := s.repo.ListBelow(ctx, threshold)
	if err != nil {
		s.logger.Error().Err(err).Int("threshold", threshold).Msg("failed to list inventory below threshold")
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return recs, nil
}

// ListLowStock returns records at or below their own threshold.
func (s *inventoryService) ListLowStock(ctx context.Context) ([]model.InventoryRecord, error) {
	recs, err := s.repo.ListLowStock(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list low stock inventory")
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return recs, nil
}

// CreateInventory creates a record for a known menu item.
func (s *inventoryService) CreateInventory(ctx context.Context, menuItemID int64, quantity, threshold int) (*model.InventoryRecord, error) {
	if threshold == 0 {
		threshold = s.defaultThreshold
	}
	rec, err := model.NewInventoryRecord(menuItemID, quantity, threshold)
	if err != nil {
		return nil, err
	}

	if err := s.ensureMenuItem(ctx, menuItemID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if model.CodeOf(err) == model.ErrCodeConflict {
			return nil, model.WrapDomainError(model.ErrCodeConflict, err,
				fmt.Sprintf("inventory for menu item %d already exists", menuItemID))
		}
		s.logger.Error().Err(err).Int64("menu_item_id", menuItemID).Msg("failed to create inventory")
		return nil, fmt.Errorf("failed to create inventory: %w", err)
	}

	s.logger.Info().
		Int64("menu_item_id", menuItemID).
		Int("quantity", rec.Quantity).
		Int("threshold", rec.LowStockThreshold).
		Msg("inventory created")
	return rec, nil
}

func (s *inventoryService) ensureMenuItem(ctx context.Context, menuItemID int64) error {
	item, err := s.menu.GetByID(ctx, menuItemID)
	if err != nil {
		s.logger.Error().Err(err).Int64("menu_item_id", menuItemID).Msg("failed to get menu item")
		return fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return model.Errorf(model.ErrCodeMenuItemNotFound, "menu item %d not found", menuItemID)
	}
	return nil
}
