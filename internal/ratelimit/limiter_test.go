package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedWindowAdmitsUpToMax(t *testing.T) {
	w := NewFixedWindow(20, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 20; i++ {
		require.True(t, w.TryAcquire(ctx, 1), "call %d should be admitted", i)
	}
	require.False(t, w.TryAcquire(ctx, 1), "call 21 should be denied")
}

func TestFixedWindowDenialConsumesNothing(t *testing.T) {
	w := NewFixedWindow(2, time.Minute)
	ctx := context.Background()

	require.True(t, w.TryAcquire(ctx, 1))
	require.True(t, w.TryAcquire(ctx, 1))
	require.False(t, w.TryAcquire(ctx, 1))
	require.Equal(t, 2, w.count, "denied call must not increment the count")

	// Still denied, still not counted.
	require.False(t, w.TryAcquire(ctx, 1))
	require.Equal(t, 2, w.count)
}

func TestFixedWindowResets(t *testing.T) {
	now := time.Unix(1700000000, 0)
	w := NewFixedWindow(1, time.Minute)
	w.now = func() time.Time { return now }
	ctx := context.Background()

	require.True(t, w.TryAcquire(ctx, 1))
	require.False(t, w.TryAcquire(ctx, 1))

	// Just shy of the boundary: still the same window.
	now = now.Add(time.Minute - time.Second)
	require.False(t, w.TryAcquire(ctx, 1))

	// At the boundary the window restarts.
	now = now.Add(time.Second)
	require.True(t, w.TryAcquire(ctx, 1))
	require.False(t, w.TryAcquire(ctx, 1))
}

func TestFixedWindowConcurrentCallers(t *testing.T) {
	const max = 20
	w := NewFixedWindow(max, time.Minute)
	ctx := context.Background()

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.TryAcquire(ctx, 1) {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, max, admitted, "exactly max callers may win the race")
}

func TestPerTenantBudgetsAreIndependent(t *testing.T) {
	p := NewPerTenant(1, time.Minute)
	ctx := context.Background()

	require.True(t, p.TryAcquire(ctx, 1))
	require.False(t, p.TryAcquire(ctx, 1))

	// Tenant 2 has its own window.
	require.True(t, p.TryAcquire(ctx, 2))
	require.False(t, p.TryAcquire(ctx, 2))
}
