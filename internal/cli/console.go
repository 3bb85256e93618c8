package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"menuhub/internal/model"
	"menuhub/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	prompt = "Enter your command (e.g., 'add 2 tea', 'remove 1 dumpling', 'summary', 'cancel', 'done'): "
	usage  = "Invalid command. Try 'add 2 tea', 'remove 1 dumpling', 'summary', 'cancel', or 'done'."
)

// session is the state of one ordering conversation.
type session struct {
	orderID uuid.UUID
	in      *bufio.Scanner
	out     io.Writer
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// handlerFunc runs one command. finished ends the conversation.
type handlerFunc func(ctx context.Context, s *session, cmd Command) (finished bool, err error)

// Console drives an order through line-oriented commands.
type Console struct {
	orders   service.OrderService
	menu     service.MenuService
	commands map[string]handlerFunc
	logger   zerolog.Logger
}

// NewConsole creates a console over the order and menu services.
func NewConsole(orders service.OrderService, menu service.MenuService, logger zerolog.Logger) *Console {
	c := &Console{
		orders: orders,
		menu:   menu,
		logger: logger.With().Str("component", "console").Logger(),
	}
	c.commands = map[string]handlerFunc{
		ActionAdd:     c.add,
		ActionRemove:  c.remove,
		ActionSummary: c.summary,
		ActionCancel:  c.cancel,
		ActionDone:    c.done,
	}
	return c
}

// Run opens a new order and processes commands from in until the order is
// finalized or cancelled. Reaching the end of input cancels the order so its
// reserved stock is released.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	order, err := c.orders.CreateOrder(ctx)
	if err != nil {
		return fmt.Errorf("failed to start order: %w", err)
	}
	s := &session{orderID: order.ID, in: bufio.NewScanner(in), out: out}
	c.logger.Info().Str("order_id", order.ID.String()).Msg("order session started")

	for {
		fmt.Fprint(out, prompt)
		if !s.in.Scan() {
			fmt.Fprintln(out)
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			_, err := c.orders.CancelOrder(context.WithoutCancel(ctx), s.orderID)
			return err
		}

		cmd, ok := ParseCommand(s.in.Text())
		if !ok {
			s.printf(usage)
			continue
		}

		finished, err := c.commands[cmd.Action](ctx, s, cmd)
		if err != nil {
			return err
		}
		if finished {
			return nil
		}
	}
}

func (c *Console) add(ctx context.Context, s *session, cmd Command) (bool, error) {
	item, err := c.menu.FindClosest(ctx, cmd.Item)
	if errors.Is(err, model.ErrMenuItemNotFound) {
		s.printf("'%s' is not on the menu. Please try again.", cmd.Item)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	_, err = c.orders.AddItemToOrder(ctx, s.orderID, item.ID, cmd.Quantity)
	switch {
	case errors.Is(err, model.ErrInsufficientStock):
		s.printf("Unable to add %d x %s. Not enough stock available.", cmd.Quantity, item.Name)
		return false, nil
	case isRetryable(err):
		s.printf("The order is busy, please try again.")
		return false, nil
	case err != nil:
		return false, err
	}

	s.printf("Added %d x %s to the order.", cmd.Quantity, item.Name)
	return false, nil
}

func (c *Console) remove(ctx context.Context, s *session, cmd Command) (bool, error) {
	item, err := c.menu.FindClosest(ctx, cmd.Item)
	if err != nil && !errors.Is(err, model.ErrMenuItemNotFound) {
		return false, err
	}
	if item == nil {
		s.printf("No item named '%s' in the order. Please check the name and try again.", cmd.Item)
		return false, nil
	}

	// Removing more than the order holds drops the whole line.
	_, err = c.orders.RemoveItemFromOrder(ctx, s.orderID, item.ID, cmd.Quantity)
	switch {
	case errors.Is(err, model.ErrItemNotInOrder):
		s.printf("No item named '%s' in the order. Please check the name and try again.", cmd.Item)
		return false, nil
	case isRetryable(err):
		s.printf("The order is busy, please try again.")
		return false, nil
	case err != nil:
		return false, err
	}

	s.printf("Removed %d x %s from the order.", cmd.Quantity, item.Name)
	return false, nil
}

func (c *Console) summary(ctx context.Context, s *session, _ Command) (bool, error) {
	order, err := c.orders.GetOrder(ctx, s.orderID)
	if err != nil {
		return false, err
	}

	s.printf("Order Summary:")
	for _, line := range order.Lines {
		s.printf("%d x %s @ $%s = $%s", line.Quantity, line.Name,
			line.PriceAtTimeOfOrder.StringFixed(2), line.Subtotal().StringFixed(2))
	}
	s.printf("Total Price: $%s", order.TotalPrice().StringFixed(2))
	return false, nil
}

func (c *Console) cancel(ctx context.Context, s *session, _ Command) (bool, error) {
	if _, err := c.orders.CancelOrder(ctx, s.orderID); err != nil {
		return false, err
	}
	s.printf("The order has been canceled. Welcome back next time!")
	return true, nil
}

func (c *Console) done(ctx context.Context, s *session, cmd Command) (bool, error) {
	items, err := c.orders.GetOrderItems(ctx, s.orderID)
	if err != nil {
		return false, err
	}
	if len(items) == 0 {
		s.printf("No items in the order. Cannot finalize.")
		return false, nil
	}

	s.printf("Finalizing Order:")
	if _, err := c.summary(ctx, s, cmd); err != nil {
		return false, err
	}

	fmt.Fprint(s.out, "Confirm order? (yes/no): ")
	confirmed := s.in.Scan() && strings.EqualFold(strings.TrimSpace(s.in.Text()), "yes")
	if !confirmed {
		if _, err := c.orders.CancelOrder(ctx, s.orderID); err != nil {
			return false, err
		}
		s.printf("Order canceled.")
		return true, nil
	}

	if _, err := c.orders.CompleteOrder(ctx, s.orderID); err != nil {
		return false, err
	}
	s.printf("Order confirmed. Thank you!")
	return true, nil
}

func isRetryable(err error) bool {
	return errors.Is(err, model.ErrBusy) || errors.Is(err, model.ErrConflict)
}
