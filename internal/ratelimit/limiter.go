// Package ratelimit bounds outbound survey sends so the downstream
// messaging provider is never burst past its own throttling.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Acquirer decides whether one more outbound send is admitted right now.
// Implementations must be safe for concurrent use; a denied call must not
// consume any budget.
type Acquirer interface {
	TryAcquire(ctx context.Context, tenantID int64) bool
}

// FixedWindow is the simplest window counter: the first acquire at or past
// windowStart+window resets the count. Check and increment happen under one
// lock so two callers can never share the last slot.
type FixedWindow struct {
	max    int
	window time.Duration

	mu          sync.Mutex
	count       int
	windowStart time.Time

	now func() time.Time // overridable in tests
}

func NewFixedWindow(max int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// TryAcquire implements Acquirer. The tenant id is ignored: one shared
// budget for the whole process.
func (w *FixedWindow) TryAcquire(_ context.Context, _ int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if w.windowStart.IsZero() || now.Sub(w.windowStart) >= w.window {
		w.windowStart = now
		w.count = 0
	}

	if w.count >= w.max {
		return false
	}
	w.count++
	return true
}

// PerTenant keys a FixedWindow per tenant so one busy property cannot
// starve the others. Grows with the tenant set; tenants are few and
// long-lived so no eviction is needed.
type PerTenant struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	windows map[int64]*FixedWindow
}

func NewPerTenant(max int, window time.Duration) *PerTenant {
	return &PerTenant{
		max:     max,
		window:  window,
		windows: make(map[int64]*FixedWindow),
	}
}

func (p *PerTenant) TryAcquire(ctx context.Context, tenantID int64) bool {
	p.mu.Lock()
	w, ok := p.windows[tenantID]
	if !ok {
		w = NewFixedWindow(p.max, p.window)
		p.windows[tenantID] = w
	}
	p.mu.Unlock()

	return w.TryAcquire(ctx, tenantID)
}
