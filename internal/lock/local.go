package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"menuhub/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// localLocker implements Locker with one weighted semaphore per active key.
// Entries are reference counted and dropped once no goroutine holds or waits on them.
type localLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	timeout time.Duration
	logger  zerolog.Logger
}

type localEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// NewLocalLocker creates an in-process keyed locker.
func NewLocalLocker(timeout time.Duration, logger zerolog.Logger) Locker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &localLocker{
		entries: make(map[string]*localEntry),
		timeout: timeout,
		logger:  logger.With().Str("component", "local-locker").Logger(),
	}
}

// Acquire waits for the key's semaphore, bounded by the configured timeout.
func (l *localLocker) Acquire(ctx context.Context, key string) (Releaser, error) {
	entry := l.ref(key)

	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := entry.sem.Acquire(waitCtx, 1); err != nil {
		l.unref(key)
		if errors.Is(err, context.DeadlineExceeded) {
			l.logger.Warn().
				Str("key", key).
				Dur("timeout", l.timeout).
				Msg("lock wait timed out")
			return nil, model.WrapDomainError(model.ErrCodeBusy, err, "timed out waiting for "+key)
		}
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.sem.Release(1)
			l.unref(key)
		})
	}, nil
}

func (l *localLocker) ref(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (l *localLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}
