package repository

import (
	"context"
	"errors"

	"menuhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const inventoryColumns = `menu_item_id, quantity, low_stock_threshold, updated_at`

// inventoryRepository implements the InventoryRepository interface using PostgreSQL.
// Each mutation is one statement, so the row lock taken by PostgreSQL makes it atomic.
type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// Get retrieves the inventory record of a menu item.
func (r *inventoryRepository) Get(ctx context.Context, menuItemID int64) (*model.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE menu_item_id = $1
	`

	rec, err := scanInventory(r.pool.QueryRow(ctx, query, menuItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("menu_item_id", menuItemID).Msg("failed to query inventory")
		return nil, wrapError("query inventory", err)
	}
	return rec, nil
}

// Create inserts a new inventory record.
func (r *inventoryRepository) Create(ctx context.Context, record *model.InventoryRecord) error {
	query := `
		INSERT INTO inventory (menu_item_id, quantity, low_stock_threshold)
		VALUES ($1, $2, $3)
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, record.MenuItemID, record.Quantity, record.LowStockThreshold).
		Scan(&record.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("menu_item_id", record.MenuItemID).Msg("failed to create inventory")
		return wrapError("create inventory", err)
	}
	return nil
}

// Increment adds stock, creating the record on first use.
func (r *inventoryRepository) Increment(ctx context.Context, menuItemID int64, amount, defaultThreshold int) (*model.InventoryRecord, error) {
	query := `
		INSERT INTO inventory (menu_item_id, quantity, low_stock_threshold)
		VALUES ($1, $2, $3)
		ON CONFLICT (menu_item_id)
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING ` + inventoryColumns

	rec, err := scanInventory(r.pool.QueryRow(ctx, query, menuItemID, amount, defaultThreshold))
	if err != nil {
		r.logger.Error().Err(err).
			Int64("menu_item_id", menuItemID).
			Int("amount", amount).
			Msg("failed to increment inventory")
		return nil, wrapError("increment inventory", err)
	}

	r.logger.Debug().
		Int64("menu_item_id", menuItemID).
		Int("amount", amount).
		Int("quantity", rec.Quantity).
		Msg("inventory incremented")

	return rec, nil
}

// DecrementIfAvailable subtracts stock only when enough is on hand.
func (r *inventoryRepository) DecrementIfAvailable(ctx context.Context, menuItemID int64, amount int) (*model.InventoryRecord, bool, error) {
	query := `
		UPDATE inventory
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE menu_item_id = $1 AND quantity >= $2
		RETURNING ` + inventoryColumns

	rec, err := scanInventory(r.pool.QueryRow(ctx, query, menuItemID, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().
				Int64("menu_item_id", menuItemID).
				Int("amount", amount).
				Msg("insufficient inventory for decrement")
			return nil, false, nil
		}
		r.logger.Error().Err(err).
			Int64("menu_item_id", menuItemID).
			Int("amount", amount).
			Msg("failed to decrement inventory")
		return nil, false, wrapError("decrement inventory", err)
	}

	r.logger.Debug().
		Int64("menu_item_id", menuItemID).
		Int("amount", amount).
		Int("quantity", rec.Quantity).
		Msg("inventory decremented")

	return rec, true, nil
}

// ListBelow returns records with quantity strictly below threshold.
func (r *inventoryRepository) ListBelow(ctx context.Context, threshold int) ([]model.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE quantity < $1
		ORDER BY quantity, menu_item_id
	`

	recs, err := r.queryRecords(ctx, query, threshold)
	if err != nil {
		r.logger.Error().Err(err).Int("threshold", threshold).Msg("failed to query inventory below threshold")
		return nil, wrapError("query inventory below threshold", err)
	}
	return recs, nil
}

// ListLowStock returns records at or below their own threshold.
func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]model.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE quantity <= low_stock_threshold
		ORDER BY quantity, menu_item_id
	`

	recs, err := r.queryRecords(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query low stock inventory")
		return nil, wrapError("query low stock inventory", err)
	}
	return recs, nil
}

func (r *inventoryRepository) queryRecords(ctx context.Context, query string, args ...any) ([]model.InventoryRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []model.InventoryRecord{}
	for rows.Next() {
		rec, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func scanInventory(row pgx.Row) (*model.InventoryRecord, error) {
	var rec model.InventoryRecord
	if err := row.Scan(&rec.MenuItemID, &rec.Quantity, &rec.LowStockThreshold, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
