package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"menuhub/internal/model"
	"menuhub/internal/repository"
)

type menuRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]model.MenuItem
	byName map[string]int64
}

// NewMenuRepository creates an in-memory menu repository.
func NewMenuRepository() repository.MenuRepository {
	return &menuRepository{
		items:  make(map[int64]model.MenuItem),
		byName: make(map[string]int64),
	}
}

func (r *menuRepository) GetAll(_ context.Context) ([]model.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sortMenu(out)
	return out, nil
}

func (r *menuRepository) GetByCategory(_ context.Context, category model.Category) ([]model.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.MenuItem{}
	for _, item := range r.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	sortMenu(out)
	return out, nil
}

func (r *menuRepository) GetByID(_ context.Context, id int64) (*model.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *menuRepository) GetByName(_ context.Context, name string) (*model.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[nameKey(name)]
	if !ok {
		return nil, nil
	}
	item := r.items[id]
	return &item, nil
}

func (r *menuRepository) Create(_ context.Context, item *model.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nameKey(item.Name)
	if _, exists := r.byName[key]; exists {
		return model.Errorf(model.ErrCodeConflict, "menu item %q already exists", item.Name)
	}

	r.nextID++
	item.ID = r.nextID
	item.CreatedAt = time.Now().UTC()

	r.items[item.ID] = *item
	r.byName[key] = item.ID
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func categoryRank(c model.Category) int {
	for i, known := range model.Categories {
		if known == c {
			return i
		}
	}
	return len(model.Categories)
}

func sortMenu(items []model.MenuItem) {
	sort.Slice(items, func(i, j int) bool {
		ri, rj := categoryRank(items[i].Category), categoryRank(items[j].Category)
		if ri != rj {
			return ri < rj
		}
		return items[i].Name < items[j].Name
	})
}
