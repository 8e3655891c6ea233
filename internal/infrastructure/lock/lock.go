// Package lock serializes balance mutations per account. Lock returns the
// release function of the held lock.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisAccountLocker takes distributed locks so that mutations from several
// API instances on one account run one at a time.
type RedisAccountLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisAccountLocker builds a locker. ttl bounds how long a crashed holder
// can block others; wait bounds how long Lock retries.
func NewRedisAccountLocker(rdb *redis.Client, ttl, wait time.Duration) *RedisAccountLocker {
	return &RedisAccountLocker{client: redislock.New(rdb), ttl: ttl, wait: wait}
}

func (l *RedisAccountLocker) Lock(ctx context.Context, key string) (func(ctx context.Context) error, error) {
	retries := int(l.wait / (50 * time.Millisecond))
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), retries),
	}
	lk, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, opts)
	if err == redislock.ErrNotObtained {
		return nil, fmt.Errorf("%w: account %s is locked", shared.ErrConcurrencyConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		err := lk.Release(ctx)
		if err == redislock.ErrLockNotHeld {
			// expired under us; the optimistic version check still guards the write
			return nil
		}
		return err
	}, nil
}

// LocalAccountLocker is an in-process keyed mutex for single-instance
// deployments and tests.
type LocalAccountLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalAccountLocker() *LocalAccountLocker {
	return &LocalAccountLocker{locks: make(map[string]*keyLock)}
}

func (l *LocalAccountLocker) Lock(ctx context.Context, key string) (func(ctx context.Context) error, error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { l.release(key, kl, true) })
		return nil
	}, nil
}

func (l *LocalAccountLocker) release(key string, kl *keyLock, held bool) {
	if held {
		<-kl.ch
	}
	l.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}
