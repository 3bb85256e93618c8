package cli

import (
	"context"
	"strings"
	"testing"

	"menuhub/internal/lock"
	"menuhub/internal/model"
	"menuhub/internal/repository/memory"
	"menuhub/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
		ok    bool
	}{
		{name: "add", input: "add 2 tea", want: Command{Action: ActionAdd, Quantity: 2, Item: "tea"}, ok: true},
		{name: "remove multi word", input: "  Remove 1 Chocolate Cake ", want: Command{Action: ActionRemove, Quantity: 1, Item: "chocolate cake"}, ok: true},
		{name: "summary", input: "SUMMARY", want: Command{Action: ActionSummary}, ok: true},
		{name: "cancel", input: "cancel", want: Command{Action: ActionCancel}, ok: true},
		{name: "done", input: "done", want: Command{Action: ActionDone}, ok: true},
		{name: "zero quantity", input: "add 0 tea"},
		{name: "missing quantity", input: "add tea"},
		{name: "negative quantity", input: "add -1 tea"},
		{name: "quantity above stock range", input: "add 3000000000 tea"},
		{name: "unknown verb", input: "order 2 tea"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommand(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

type consoleFixture struct {
	console   *Console
	orders    service.OrderService
	inventory service.InventoryService
	ids       map[string]int64
}

func newConsoleFixture(t *testing.T) *consoleFixture {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	menuRepo := memory.NewMenuRepository()
	menu := service.NewMenuService(menuRepo, logger)
	inventory := service.NewInventoryService(memory.NewInventoryRepository(), menuRepo, 0, nil, nil, logger)
	orders := service.NewOrderService(memory.NewOrderRepository(), menu, inventory, lock.NewLocalLocker(0, logger), nil, nil, logger)

	ids := make(map[string]int64)
	for _, seed := range []struct {
		name, price string
		stock       int
	}{
		{"Tea", "2.00", 3},
		{"Dumpling", "5.00", 10},
	} {
		item, err := menu.CreateMenuItem(ctx, seed.name, "main", decimal.RequireFromString(seed.price))
		require.NoError(t, err)
		_, err = inventory.AddStock(ctx, item.ID, seed.stock)
		require.NoError(t, err)
		ids[seed.name] = item.ID
	}

	return &consoleFixture{
		console:   NewConsole(orders, menu, logger),
		orders:    orders,
		inventory: inventory,
		ids:       ids,
	}
}

func (f *consoleFixture) run(t *testing.T, input string) string {
	t.Helper()
	var out strings.Builder
	require.NoError(t, f.console.Run(context.Background(), strings.NewReader(input), &out))
	return out.String()
}

func (f *consoleFixture) stock(t *testing.T, name string) int {
	t.Helper()
	qty, err := f.inventory.GetQuantity(context.Background(), f.ids[name])
	require.NoError(t, err)
	return qty
}

func (f *consoleFixture) onlyOrder(t *testing.T) model.Order {
	t.Helper()
	orders, err := f.orders.ListOrders(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	return orders[0]
}

func TestConsole_ConfirmedOrder(t *testing.T) {
	f := newConsoleFixture(t)

	out := f.run(t, "add 2 tea\nadd 3 dumplng\nremove 1 dumpling\nsummary\ndone\nyes\n")

	assert.Contains(t, out, "Added 2 x Tea to the order.")
	assert.Contains(t, out, "Added 3 x Dumpling to the order.")
	assert.Contains(t, out, "Removed 1 x Dumpling from the order.")
	assert.Contains(t, out, "2 x Dumpling @ $5.00 = $10.00")
	assert.Contains(t, out, "Total Price: $14.00")
	assert.Contains(t, out, "Order confirmed. Thank you!")

	assert.Equal(t, model.OrderStatusCompleted, f.onlyOrder(t).Status)
	assert.Equal(t, 1, f.stock(t, "Tea"))
	assert.Equal(t, 8, f.stock(t, "Dumpling"))
}

func TestConsole_Rejections(t *testing.T) {
	f := newConsoleFixture(t)

	out := f.run(t, "hello\nadd 4 tea\nadd 1 sushi\nremove 1 tea\ndone\ncancel\n")

	assert.Contains(t, out, usage)
	assert.Contains(t, out, "Unable to add 4 x Tea. Not enough stock available.")
	assert.Contains(t, out, "'sushi' is not on the menu. Please try again.")
	assert.Contains(t, out, "No item named 'tea' in the order.")
	assert.Contains(t, out, "No items in the order. Cannot finalize.")
	assert.Contains(t, out, "The order has been canceled. Welcome back next time!")

	assert.Equal(t, model.OrderStatusCancelled, f.onlyOrder(t).Status)
	assert.Equal(t, 3, f.stock(t, "Tea"))
}

func TestConsole_DeclinedConfirmationReleasesStock(t *testing.T) {
	f := newConsoleFixture(t)

	out := f.run(t, "add 5 dumpling\ndone\nno\n")

	assert.Contains(t, out, "Order canceled.")
	assert.Equal(t, model.OrderStatusCancelled, f.onlyOrder(t).Status)
	assert.Equal(t, 10, f.stock(t, "Dumpling"))
}

func TestConsole_EndOfInputCancels(t *testing.T) {
	f := newConsoleFixture(t)

	f.run(t, "add 2 tea\n")

	assert.Equal(t, model.OrderStatusCancelled, f.onlyOrder(t).Status)
	assert.Equal(t, 3, f.stock(t, "Tea"))
}
