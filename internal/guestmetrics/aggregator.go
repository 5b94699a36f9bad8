// internal/guestmetrics/aggregator.go
package guestmetrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guest-engage/internal/metrics"
	"guest-engage/internal/model"
)

// BookingReader lists the booking ledger for one (tenant, phone) key.
type BookingReader interface {
	ListBookings(ctx context.Context, tenantID int64, phone string) ([]model.Booking, error)
}

// SummaryStore persists the materialized summary. Upsert overwrites;
// Summary returns nil, nil when the key was never aggregated.
type SummaryStore interface {
	UpsertSummary(ctx context.Context, s model.GuestEngagementSummary) error
	Summary(ctx context.Context, tenantID int64, phone string) (*model.GuestEngagementSummary, error)
}

// Aggregator keeps GuestEngagementSummary consistent with the booking
// ledger by full recomputation. Refresh is idempotent: re-delivery of the
// triggering event just recomputes the same values. Do not turn this into
// an incremental counter; retried events would double-count.
type Aggregator struct {
	bookings BookingReader
	store    SummaryStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAggregator(bookings BookingReader, store SummaryStore) *Aggregator {
	return &Aggregator{
		bookings: bookings,
		store:    store,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Refresh recomputes the summary for one key from the current booking set
// and overwrites whatever was stored. A booking-store read failure
// propagates: a visibly failed refresh beats a silently wrong summary.
// Concurrent calls for the same key are serialized; different keys run in
// parallel.
func (a *Aggregator) Refresh(ctx context.Context, tenantID int64, phone string) (model.GuestEngagementSummary, error) {
	lock := a.keyLock(tenantID, phone)
	lock.Lock()
	defer lock.Unlock()

	bookings, err := a.bookings.ListBookings(ctx, tenantID, phone)
	if err != nil {
		metrics.SummaryRefreshes.WithLabelValues("error").Inc()
		return model.GuestEngagementSummary{}, fmt.Errorf("list bookings: %w", err)
	}

	summary := model.GuestEngagementSummary{
		TenantID:   tenantID,
		GuestPhone: phone,
		TotalStays: len(bookings),
		UpdatedAt:  time.Now(),
	}
	for _, b := range bookings {
		summary.LifetimeValueCents += b.TotalRevenueCents
	}

	if err := a.store.UpsertSummary(ctx, summary); err != nil {
		metrics.SummaryRefreshes.WithLabelValues("error").Inc()
		return model.GuestEngagementSummary{}, fmt.Errorf("store summary: %w", err)
	}

	metrics.SummaryRefreshes.WithLabelValues("ok").Inc()
	return summary, nil
}

// Get returns the stored summary, or nil when no aggregation ever ran for
// the key. It never synthesizes a zero-valued record.
func (a *Aggregator) Get(ctx context.Context, tenantID int64, phone string) (*model.GuestEngagementSummary, error) {
	return a.store.Summary(ctx, tenantID, phone)
}

func (a *Aggregator) keyLock(tenantID int64, phone string) *sync.Mutex {
	key := fmt.Sprintf("%d:%s", tenantID, phone)

	a.mu.Lock()
	defer a.mu.Unlock()

	lock, ok := a.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[key] = lock
	}
	return lock
}
