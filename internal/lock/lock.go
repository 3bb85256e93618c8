// Package lock serializes work on a single resource key, such as one order.
package lock

import (
	"context"
	"time"
)

// DefaultTimeout bounds how long Acquire waits when no timeout is configured.
const DefaultTimeout = 2 * time.Second

// Releaser gives up a held lock. Calling it more than once is a no-op.
type Releaser func()

// Locker grants exclusive access to a key.
type Locker interface {
	// Acquire blocks until the key is held or the wait bound elapses.
	// A timed-out wait returns model.ErrBusy.
	Acquire(ctx context.Context, key string) (Releaser, error)
}

// OrderKey namespaces order ids so unrelated resources never share a lock.
func OrderKey(orderID string) string {
	return "order:" + orderID
}
