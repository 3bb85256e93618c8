package service

import (
	"context"
	"errors"
	"testing"

	"menuhub/internal/model"
	"menuhub/internal/repository/memory"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMenuRepository is a mock implementation of MenuRepository.
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) GetAll(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) GetByCategory(ctx context.Context, category model.Category) ([]model.MenuItem, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) GetByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) GetByName(ctx context.Context, name string) (*model.MenuItem, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func newMenuWithItems(t *testing.T, names ...string) MenuService {
	t.Helper()
	svc := NewMenuService(memory.NewMenuRepository(), zerolog.Nop())
	for _, name := range names {
		_, err := svc.CreateMenuItem(context.Background(), name, "main", decimal.RequireFromString("9.50"))
		require.NoError(t, err)
	}
	return svc
}

func TestMenuService_FindByID(t *testing.T) {
	ctx := context.Background()
	svc := newMenuWithItems(t, "Burger")

	all, err := svc.ListMenu(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	item, err := svc.FindByID(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Burger", item.Name)

	_, err = svc.FindByID(ctx, 404)
	assert.ErrorIs(t, err, model.ErrMenuItemNotFound)

	_, err = svc.FindByID(ctx, 0)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestMenuService_FindByName(t *testing.T) {
	ctx := context.Background()
	svc := newMenuWithItems(t, "Fish and Chips")

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "exact", input: "Fish and Chips"},
		{name: "case and whitespace", input: "  fish AND chips "},
		{name: "unknown", input: "Pizza", wantErr: model.ErrMenuItemNotFound},
		{name: "blank", input: "   ", wantErr: model.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := svc.FindByName(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Fish and Chips", item.Name)
		})
	}
}

func TestMenuService_FindClosest(t *testing.T) {
	ctx := context.Background()
	svc := newMenuWithItems(t, "Burger", "Caesar Salad", "Cheesecake")

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "burger", want: "Burger"},
		{input: "burgr", want: "Burger"},
		{input: "ceasar salad", want: "Caesar Salad"},
		{input: "cheescake", want: "Cheesecake"},
		{input: "sushi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			item, err := svc.FindClosest(ctx, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrMenuItemNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, item.Name)
		})
	}
}

func TestMenuService_ListByCategory(t *testing.T) {
	ctx := context.Background()
	svc := NewMenuService(memory.NewMenuRepository(), zerolog.Nop())

	_, err := svc.CreateMenuItem(ctx, "Soup", "appetizer", decimal.RequireFromString("4.00"))
	require.NoError(t, err)
	_, err = svc.CreateMenuItem(ctx, "Steak", "main", decimal.RequireFromString("22.00"))
	require.NoError(t, err)

	items, err := svc.ListByCategory(ctx, "APPETIZER")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Soup", items[0].Name)

	_, err = svc.ListByCategory(ctx, "brunch")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestMenuService_CreateMenuItem(t *testing.T) {
	ctx := context.Background()
	svc := newMenuWithItems(t, "Burger")

	tests := []struct {
		name     string
		itemName string
		category string
		price    string
		wantErr  error
	}{
		{name: "valid", itemName: "Lemonade", category: "beverage", price: "2.50"},
		{name: "duplicate name", itemName: "burger", category: "main", price: "8.00", wantErr: model.ErrConflict},
		{name: "zero price", itemName: "Water", category: "beverage", price: "0", wantErr: model.ErrInvalidArgument},
		{name: "negative price", itemName: "Refund", category: "main", price: "-1", wantErr: model.ErrInvalidArgument},
		{name: "empty name", itemName: " ", category: "main", price: "1", wantErr: model.ErrInvalidArgument},
		{name: "unknown category", itemName: "Brunch Plate", category: "brunch", price: "1", wantErr: model.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := svc.CreateMenuItem(ctx, tt.itemName, tt.category, decimal.RequireFromString(tt.price))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, item.ID)
		})
	}
}

func TestMenuService_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	repo.On("GetByID", ctx, int64(1)).Return(nil, errors.New("database error"))
	repo.On("GetAll", ctx).Return(nil, errors.New("database error"))

	svc := NewMenuService(repo, zerolog.Nop())

	_, err := svc.FindByID(ctx, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get menu item")
	assert.Equal(t, model.ErrCodeInternalError, model.CodeOf(err))

	_, err = svc.ListMenu(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list menu items")

	repo.AssertExpectations(t)
}
