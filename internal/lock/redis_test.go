package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"menuhub/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLeaseStore emulates SET NX and owner-checked delete in memory.
type fakeLeaseStore struct {
	mu      sync.Mutex
	owners  map[string]string
	failSet error
}

func newFakeLeaseStore() *fakeLeaseStore {
	return &fakeLeaseStore{owners: make(map[string]string)}
}

func (f *fakeLeaseStore) SetNX(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet != nil {
		return false, f.failSet
	}
	if _, held := f.owners[key]; held {
		return false, nil
	}
	f.owners[key] = owner
	return true, nil
}

func (f *fakeLeaseStore) ReleaseIfOwner(ctx context.Context, key, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owners[key] == owner {
		delete(f.owners, key)
	}
	return nil
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	store := newFakeLeaseStore()
	locker := newRedisLocker(store, 50*time.Millisecond, time.Minute, zerolog.Nop())
	ctx := context.Background()

	release, err := locker.Acquire(ctx, OrderKey("1"))
	require.NoError(t, err)
	assert.Contains(t, store.owners, keyPrefix+"order:1")

	release()
	release()
	assert.Empty(t, store.owners)
}

func TestRedisLocker_ContendedKeyTimesOut(t *testing.T) {
	store := newFakeLeaseStore()
	locker := newRedisLocker(store, 60*time.Millisecond, time.Minute, zerolog.Nop())
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "k")
	require.NoError(t, err)
	defer release()

	_, err = locker.Acquire(ctx, "k")
	assert.ErrorIs(t, err, model.ErrBusy)
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	store := newFakeLeaseStore()
	locker := newRedisLocker(store, time.Second, time.Minute, zerolog.Nop())
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "k")
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		release()
	}()

	second, err := locker.Acquire(ctx, "k")
	require.NoError(t, err)
	second()
}

func TestRedisLocker_StoreError(t *testing.T) {
	store := newFakeLeaseStore()
	store.failSet = errors.New("connection refused")
	locker := newRedisLocker(store, time.Second, time.Minute, zerolog.Nop())

	_, err := locker.Acquire(context.Background(), "k")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotErrorIs(t, err, model.ErrBusy)
}
