package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalAccountLocker_Serializes(t *testing.T) {
	l := NewLocalAccountLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "customer:1")
			require.NoError(t, err)
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			require.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.locks)
}

func TestLocalAccountLocker_IndependentKeys(t *testing.T) {
	l := NewLocalAccountLocker()
	ctx := context.Background()

	u1, err := l.Lock(ctx, "vendor:1")
	require.NoError(t, err)
	u2, err := l.Lock(ctx, "vendor:2")
	require.NoError(t, err)
	require.NoError(t, u1(ctx))
	require.NoError(t, u1(ctx), "double unlock is harmless")
	require.NoError(t, u2(ctx))
}

func TestLocalAccountLocker_ContextCancel(t *testing.T) {
	l := NewLocalAccountLocker()
	held, err := l.Lock(context.Background(), "ledger:cash")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "ledger:cash")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, held(context.Background()))
	assert.Empty(t, l.locks)
}
