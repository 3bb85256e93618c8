package repository

import (
	"context"
	"errors"
	"strings"

	"menuhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const menuColumns = `id, name, category, price, created_at`

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

// GetAll retrieves all menu items.
func (r *menuRepository) GetAll(ctx context.Context) ([]model.MenuItem, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM menu_items
		ORDER BY CASE category
			WHEN 'appetizer' THEN 1
			WHEN 'main' THEN 2
			WHEN 'dessert' THEN 3
			ELSE 4
		END, name
	`

	items, err := r.queryItems(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu items")
		return nil, wrapError("query menu items", err)
	}
	return items, nil
}

// GetByCategory retrieves the menu items of a single category.
func (r *menuRepository) GetByCategory(ctx context.Context, category model.Category) ([]model.MenuItem, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM menu_items
		WHERE category = $1
		ORDER BY name
	`

	items, err := r.queryItems(ctx, query, string(category))
	if err != nil {
		r.logger.Error().Err(err).Str("category", string(category)).Msg("failed to query menu items by category")
		return nil, wrapError("query menu items by category", err)
	}
	return items, nil
}

// GetByID retrieves a single menu item by its ID.
func (r *menuRepository) GetByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM menu_items
		WHERE id = $1
	`

	item, err := scanMenuItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("menu_item_id", id).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("menu_item_id", id).Msg("failed to query menu item")
		return nil, wrapError("query menu item", err)
	}

	return item, nil
}

// GetByName retrieves a single menu item by case-insensitive name.
func (r *menuRepository) GetByName(ctx context.Context, name string) (*model.MenuItem, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM menu_items
		WHERE LOWER(name) = LOWER($1)
	`

	item, err := scanMenuItem(r.pool.QueryRow(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("name", name).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("name", name).Msg("failed to query menu item by name")
		return nil, wrapError("query menu item by name", err)
	}

	return item, nil
}

// Create inserts a menu item and sets its ID and creation time.
func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	query := `
		INSERT INTO menu_items (name, category, price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, item.Name, string(item.Category), item.Price).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", item.Name).Msg("failed to create menu item")
		return wrapError("create menu item", err)
	}

	r.logger.Debug().
		Int64("menu_item_id", item.ID).
		Str("name", item.Name).
		Msg("menu item created successfully")

	return nil
}

func (r *menuRepository) queryItems(ctx context.Context, query string, args ...any) ([]model.MenuItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

func scanMenuItem(row pgx.Row) (*model.MenuItem, error) {
	var (
		item     model.MenuItem
		category string
	)
	if err := row.Scan(&item.ID, &item.Name, &category, &item.Price, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.Category = model.Category(category)
	return &item, nil
}
