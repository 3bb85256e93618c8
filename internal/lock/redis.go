package lock

import (
	"context"
	"fmt"
	"time"

	"menuhub/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix       = "menuhub:lock:"
	defaultLeaseTTL = 30 * time.Second
	retryInterval   = 25 * time.Millisecond
	releaseTimeout  = time.Second
)

// releaseScript deletes the lock only while it still carries our owner token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// leaseStore is the subset of Redis operations the locker relies on.
type leaseStore interface {
	SetNX(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	ReleaseIfOwner(ctx context.Context, key, owner string) error
}

// redisLocker implements Locker with Redis SET NX leases so that several
// API instances serialize work on the same order.
type redisLocker struct {
	store   leaseStore
	timeout time.Duration
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewRedisLocker creates a distributed locker over a go-redis client.
func NewRedisLocker(client *redis.Client, timeout, ttl time.Duration, logger zerolog.Logger) Locker {
	return newRedisLocker(&redisLeaseStore{client: client}, timeout, ttl, logger)
}

func newRedisLocker(store leaseStore, timeout, ttl time.Duration, logger zerolog.Logger) *redisLocker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if ttl <= 0 {
		ttl = defaultLeaseTTL
	}
	return &redisLocker{
		store:   store,
		timeout: timeout,
		ttl:     ttl,
		logger:  logger.With().Str("component", "redis-locker").Logger(),
	}
}

// Acquire polls SET NX until it wins the lease or the timeout elapses.
func (l *redisLocker) Acquire(ctx context.Context, key string) (Releaser, error) {
	redisKey := keyPrefix + key
	owner := uuid.NewString()
	deadline := time.Now().Add(l.timeout)

	for {
		ok, err := l.store.SetNX(ctx, redisKey, owner, l.ttl)
		if err != nil {
			l.logger.Error().Err(err).Str("key", key).Msg("failed to acquire redis lock")
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		if time.Now().After(deadline) {
			l.logger.Warn().Str("key", key).Dur("timeout", l.timeout).Msg("lock wait timed out")
			return nil, model.Errorf(model.ErrCodeBusy, "timed out waiting for %s", key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true

		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := l.store.ReleaseIfOwner(releaseCtx, redisKey, owner); err != nil {
			// The lease TTL frees the key eventually.
			l.logger.Error().Err(err).Str("key", key).Msg("failed to release redis lock")
		}
	}, nil
}

// redisLeaseStore adapts *redis.Client to leaseStore.
type redisLeaseStore struct {
	client *redis.Client
}

func (s *redisLeaseStore) SetNX(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, owner, ttl).Result()
}

func (s *redisLeaseStore) ReleaseIfOwner(ctx context.Context, key, owner string) error {
	return releaseScript.Run(ctx, s.client, []string{key}, owner).Err()
}
