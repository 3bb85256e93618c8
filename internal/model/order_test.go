package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuItem(id int64, name string, price string) MenuItem {
	return MenuItem{ID: id, Name: name, Category: CategoryMain, Price: decimal.RequireFromString(price)}
}

func TestNewOrder(t *testing.T) {
	order := NewOrder()

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Empty(t, order.Lines)
	assert.True(t, order.IsModifiable())
	assert.True(t, order.TotalPrice().IsZero())
}

func TestOrder_AddLine(t *testing.T) {
	tea := menuItem(1, "Tea", "2.00")

	t.Run("New line captures price", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.AddLine(tea, 2))

		require.Len(t, order.Lines, 1)
		assert.Equal(t, 2, order.Lines[0].Quantity)
		assert.True(t, order.Lines[0].PriceAtTimeOfOrder.Equal(decimal.RequireFromString("2.00")))
	})

	t.Run("Duplicate addition increments existing line", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.AddLine(tea, 2))
		require.NoError(t, order.AddLine(tea, 3))

		require.Len(t, order.Lines, 1)
		assert.Equal(t, 5, order.ItemQuantity(tea.ID))
	})

	t.Run("Later price change does not affect existing line", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.AddLine(tea, 1))

		repriced := tea
		repriced.Price = decimal.RequireFromString("9.99")
		require.NoError(t, order.AddLine(repriced, 1))

		assert.True(t, order.Lines[0].PriceAtTimeOfOrder.Equal(decimal.RequireFromString("2.00")))
		assert.True(t, order.TotalPrice().Equal(decimal.RequireFromString("4.00")))
	})

	t.Run("Non-positive quantity rejected", func(t *testing.T) {
		order := NewOrder()
		for _, qty := range []int{0, -1} {
			err := order.AddLine(tea, qty)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		}
		assert.Empty(t, order.Lines)
	})

	t.Run("Not modifiable once cancelled", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.Cancel())

		err := order.AddLine(tea, 1)
		assert.ErrorIs(t, err, ErrNotModifiable)
	})
}

func TestOrder_RemoveLine(t *testing.T) {
	tea := menuItem(1, "Tea", "2.00")
	dumpling := menuItem(2, "Dumpling", "5.00")

	tests := []struct {
		name            string
		remove          int
		expectedRemoved int
		expectedQty     int
		expectLine      bool
	}{
		{name: "Partial removal decrements", remove: 1, expectedRemoved: 1, expectedQty: 1, expectLine: true},
		{name: "Exact removal deletes line", remove: 2, expectedRemoved: 2, expectedQty: 0, expectLine: false},
		{name: "Over-removal deletes line without error", remove: 100, expectedRemoved: 2, expectedQty: 0, expectLine: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := NewOrder()
			require.NoError(t, order.AddLine(tea, 2))
			require.NoError(t, order.AddLine(dumpling, 1))

			removed, err := order.RemoveLine(tea.ID, tt.remove)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedRemoved, removed)
			assert.Equal(t, tt.expectedQty, order.ItemQuantity(tea.ID))
			if tt.expectLine {
				assert.Len(t, order.Lines, 2)
			} else {
				require.Len(t, order.Lines, 1)
				assert.Equal(t, dumpling.ID, order.Lines[0].MenuItemID)
			}
			for _, line := range order.Lines {
				assert.Positive(t, line.Quantity)
			}
		})
	}

	t.Run("Item not in order", func(t *testing.T) {
		order := NewOrder()
		_, err := order.RemoveLine(tea.ID, 1)
		assert.ErrorIs(t, err, ErrItemNotInOrder)
	})

	t.Run("Not modifiable once completed", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.AddLine(tea, 1))
		require.NoError(t, order.Complete())

		_, err := order.RemoveLine(tea.ID, 1)
		assert.ErrorIs(t, err, ErrNotModifiable)
		assert.Equal(t, 1, order.ItemQuantity(tea.ID))
	})
}

func TestOrder_AddThenRemoveRestoresState(t *testing.T) {
	tea := menuItem(1, "Tea", "2.00")
	dumpling := menuItem(2, "Dumpling", "5.00")

	order := NewOrder()
	require.NoError(t, order.AddLine(tea, 3))
	require.NoError(t, order.AddLine(dumpling, 2))

	beforeLines := order.Clone().Lines
	beforeTotal := order.TotalPrice()

	for _, item := range []MenuItem{tea, dumpling, menuItem(3, "Cake", "4.50")} {
		require.NoError(t, order.AddLine(item, 4))
		_, err := order.RemoveLine(item.ID, 4)
		require.NoError(t, err)

		assert.Equal(t, beforeLines, order.Lines)
		assert.True(t, beforeTotal.Equal(order.TotalPrice()))
	}
}

func TestOrder_TotalPrice(t *testing.T) {
	order := NewOrder()
	require.NoError(t, order.AddLine(menuItem(1, "Dumpling", "5.00"), 2))
	require.NoError(t, order.AddLine(menuItem(2, "Tea", "2.00"), 3))

	assert.True(t, order.TotalPrice().Equal(decimal.RequireFromString("16.00")))
	assert.True(t, order.Lines[0].Subtotal().Equal(decimal.RequireFromString("10.00")))
}

func TestOrder_Transitions(t *testing.T) {
	tea := menuItem(1, "Tea", "2.00")

	t.Run("Complete empty order fails", func(t *testing.T) {
		order := NewOrder()
		err := order.Complete()
		assert.ErrorIs(t, err, ErrEmptyOrder)
		assert.Equal(t, OrderStatusPending, order.Status)
	})

	t.Run("Complete depends on lines not on total", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.AddLine(menuItem(2, "Tap Water", "0"), 3))

		require.NoError(t, order.Complete())
		assert.Equal(t, OrderStatusCompleted, order.Status)
	})

	t.Run("Complete twice fails second time", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.AddLine(tea, 1))
		require.NoError(t, order.Complete())

		err := order.Complete()
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, OrderStatusCompleted, order.Status)
	})

	t.Run("Complete cancelled order fails with invalid transition", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.Cancel())

		err := order.Complete()
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.False(t, errors.Is(err, ErrEmptyOrder))
	})

	t.Run("Cancel twice fails second time", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.Cancel())

		err := order.Cancel()
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, OrderStatusCancelled, order.Status)
	})

	t.Run("Cancel completed order fails", func(t *testing.T) {
		order := NewOrder()
		require.NoError(t, order.AddLine(tea, 1))
		require.NoError(t, order.Complete())

		assert.ErrorIs(t, order.Cancel(), ErrInvalidTransition)
	})
}

func TestOrder_Clone(t *testing.T) {
	order := NewOrder()
	require.NoError(t, order.AddLine(menuItem(1, "Tea", "2.00"), 1))

	clone := order.Clone()
	require.NoError(t, clone.AddLine(menuItem(1, "Tea", "2.00"), 5))

	assert.Equal(t, 1, order.ItemQuantity(1))
	assert.Equal(t, 6, clone.ItemQuantity(1))
}
