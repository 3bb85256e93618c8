package repository

import (
	"context"
	"errors"
	"fmt"

	"menuhub/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Create inserts a new order and its lines in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (id, status, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err := tx.Exec(ctx, query, order.ID, string(order.Status), order.Version, order.CreatedAt, order.UpdatedAt)
		if err != nil {
			return err
		}
		return r.insertLines(ctx, tx, order)
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return wrapError("create order", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// Update writes status and lines guarded by the optimistic version.
func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE orders
			SET status = $3, version = version + 1, updated_at = $4
			WHERE id = $1 AND version = $2
		`
		tag, err := tx.Exec(ctx, query, order.ID, order.Version, string(order.Status), order.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return r.staleOrMissing(ctx, tx, order.ID)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, order.ID); err != nil {
			return err
		}
		return r.insertLines(ctx, tx, order)
	})
	if err != nil {
		var de *model.DomainError
		if errors.As(err, &de) {
			r.logger.Warn().
				Str("order_id", order.ID.String()).
				Int("version", order.Version).
				Str("code", de.Code).
				Msg("order update rejected")
			return err
		}
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to update order")
		return wrapError("update order", err)
	}

	order.Version++

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("version", order.Version).
		Str("status", string(order.Status)).
		Msg("order updated successfully")

	return nil
}

func (r *orderRepository) staleOrMissing(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return model.Errorf(model.ErrCodeOrderNotFound, "order %s not found", id)
	}
	return model.Errorf(model.ErrCodeConflict, "order %s was modified concurrently", id)
}

// insertLines batches one INSERT per line, keeping line order in position.
func (r *orderRepository) insertLines(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	if len(order.Lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_lines (order_id, position, menu_item_id, name, quantity, price_at_time_of_order)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for i, line := range order.Lines {
		batch.Queue(query, order.ID, i, line.MenuItemID, line.Name, line.Quantity, line.PriceAtTimeOfOrder)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(order.Lines); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Int64("menu_item_id", order.Lines[i].MenuItemID).
				Msg("failed to insert order line")
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an order by its ID along with its lines.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, status, version, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, wrapError("query order", err)
	}

	lines, err := r.loadLines(ctx, []uuid.UUID{id})
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order lines")
		return nil, wrapError("query order lines", err)
	}
	if l, ok := lines[id]; ok {
		order.Lines = l
	}

	return order, nil
}

// GetAll retrieves orders, newest first.
func (r *orderRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT id, status, version, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query orders")
		return nil, wrapError("query orders", err)
	}

	orders := []model.Order{}
	ids := []uuid.UUID{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, wrapError("scan order", err)
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, wrapError("iterate orders", err)
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order lines")
		return nil, wrapError("query order lines", err)
	}
	for i := range orders {
		if l, ok := lines[orders[i].ID]; ok {
			orders[i].Lines = l
		}
	}

	return orders, nil
}

func (r *orderRepository) loadLines(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.OrderLine, error) {
	out := make(map[uuid.UUID][]model.OrderLine, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `
		SELECT order_id, menu_item_id, name, quantity, price_at_time_of_order
		FROM order_lines
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := r.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			line    model.OrderLine
		)
		if err := rows.Scan(&orderID, &line.MenuItemID, &line.Name, &line.Quantity, &line.PriceAtTimeOfOrder); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], line)
	}

	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order  model.Order
		status string
	)
	if err := row.Scan(&order.ID, &status, &order.Version, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	order.Status = model.OrderStatus(status)
	order.Lines = []model.OrderLine{}
	return &order, nil
}
