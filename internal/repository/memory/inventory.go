package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"menuhub/internal/model"
	"menuhub/internal/repository"
)

// inventoryRepository keeps records in a map guarded by one mutex, so every
// check-and-mutate runs as a single critical section.
type inventoryRepository struct {
	mu      sync.Mutex
	records map[int64]model.InventoryRecord
}

// NewInventoryRepository creates an in-memory inventory repository.
func NewInventoryRepository() repository.InventoryRepository {
	return &inventoryRepository{
		records: make(map[int64]model.InventoryRecord),
	}
}

func (r *inventoryRepository) Get(_ context.Context, menuItemID int64) (*model.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[menuItemID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *inventoryRepository) Create(_ context.Context, record *model.InventoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.MenuItemID]; exists {
		return model.Errorf(model.ErrCodeConflict, "inventory for menu item %d already exists", record.MenuItemID)
	}

	record.UpdatedAt = time.Now().UTC()
	r.records[record.MenuItemID] = *record
	return nil
}

func (r *inventoryRepository) Increment(_ context.Context, menuItemID int64, amount, defaultThreshold int) (*model.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[menuItemID]
	if !ok {
		rec = model.InventoryRecord{MenuItemID: menuItemID, LowStockThreshold: defaultThreshold}
	}
	if amount <= 0 || rec.Quantity > model.MaxQuantity-amount {
		return nil, model.Errorf(model.ErrCodeInvalidArgument,
			"stock for menu item %d cannot exceed %d", menuItemID, model.MaxQuantity)
	}
	rec.Quantity += amount
	rec.UpdatedAt = time.Now().UTC()
	r.records[menuItemID] = rec

	return &rec, nil
}

func (r *inventoryRepository) DecrementIfAvailable(_ context.Context, menuItemID int64, amount int) (*model.InventoryRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[menuItemID]
	if !ok || rec.Quantity < amount {
		return nil, false, nil
	}
	rec.Quantity -= amount
	rec.UpdatedAt = time.Now().UTC()
	r.records[menuItemID] = rec

	return &rec, true, nil
}

func (r *inventoryRepository) ListBelow(_ context.Context, threshold int) ([]model.InventoryRecord, error) {
	return r.filter(func(rec model.InventoryRecord) bool { return rec.Quantity < threshold }), nil
}

func (r *inventoryRepository) ListLowStock(_ context.Context) ([]model.InventoryRecord, error) {
	return r.filter(model.InventoryRecord.IsLowStock), nil
}

func (r *inventoryRepository) filter(keep func(model.InventoryRecord) bool) []model.InventoryRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.InventoryRecord{}
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].MenuItemID < out[j].MenuItemID
	})
	return out
}
