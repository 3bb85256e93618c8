package memory

import (
	"context"
	"sort"
	"sync"

	"menuhub/internal/model"
	"menuhub/internal/repository"

	"github.com/google/uuid"
)

// orderRepository stores deep copies so callers never share line slices with storage.
type orderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*model.Order
}

// NewOrderRepository creates an in-memory order repository.
func NewOrderRepository() repository.OrderRepository {
	return &orderRepository{
		orders: make(map[uuid.UUID]*model.Order),
	}
}

func (r *orderRepository) Create(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return model.Errorf(model.ErrCodeConflict, "order %s already exists", order.ID)
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *orderRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return order.Clone(), nil
}

func (r *orderRepository) GetAll(_ context.Context, limit, offset int) ([]model.Order, error) {
	r.mu.RLock()
	all := make([]model.Order, 0, len(r.orders))
	for _, order := range r.orders {
		all = append(all, *order.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	if offset >= len(all) {
		return []model.Order{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *orderRepository) Update(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return model.Errorf(model.ErrCodeOrderNotFound, "order %s not found", order.ID)
	}
	if stored.Version != order.Version {
		return model.Errorf(model.ErrCodeConflict, "order %s was modified concurrently", order.ID)
	}

	order.Version++
	r.orders[order.ID] = order.Clone()
	return nil
}
