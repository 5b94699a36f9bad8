package guestmetrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"guest-engage/internal/model"
)

type fakeBookings struct {
	bookings map[string][]model.Booking
	err      error
}

func bookingKey(tenantID int64, phone string) string {
	return fmt.Sprintf("%d:%s", tenantID, phone)
}

func (f *fakeBookings) ListBookings(_ context.Context, tenantID int64, phone string) ([]model.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings[bookingKey(tenantID, phone)], nil
}

type fakeStore struct {
	rows    map[string]model.GuestEngagementSummary
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]model.GuestEngagementSummary)}
}

func (f *fakeStore) UpsertSummary(_ context.Context, s model.GuestEngagementSummary) error {
	f.upserts++
	f.rows[bookingKey(s.TenantID, s.GuestPhone)] = s
	return nil
}

func (f *fakeStore) Summary(_ context.Context, tenantID int64, phone string) (*model.GuestEngagementSummary, error) {
	s, ok := f.rows[bookingKey(tenantID, phone)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func booking(tenantID int64, phone string, revenueCents int64) model.Booking {
	return model.Booking{
		ID:                uuid.New(),
		TenantID:          tenantID,
		GuestPhone:        phone,
		TotalRevenueCents: revenueCents,
	}
}

func TestRefreshCreatesSummary(t *testing.T) {
	reader := &fakeBookings{bookings: map[string][]model.Booking{
		bookingKey(1, "+628111"): {booking(1, "+628111", 1500)},
	}}
	store := newFakeStore()
	agg := NewAggregator(reader, store)

	sum, err := agg.Refresh(context.Background(), 1, "+628111")
	require.NoError(t, err)
	require.Equal(t, 1, sum.TotalStays)
	require.EqualValues(t, 1500, sum.LifetimeValueCents)
}

func TestRefreshOverwritesInsteadOfAdding(t *testing.T) {
	key := bookingKey(1, "+628111")
	reader := &fakeBookings{bookings: map[string][]model.Booking{
		key: {booking(1, "+628111", 1000)},
	}}
	store := newFakeStore()
	agg := NewAggregator(reader, store)

	_, err := agg.Refresh(context.Background(), 1, "+628111")
	require.NoError(t, err)

	// A second stay lands in the ledger; the refresh must equal a pure
	// recompute over the full set, not old + new.
	reader.bookings[key] = append(reader.bookings[key], booking(1, "+628111", 1500))

	sum, err := agg.Refresh(context.Background(), 1, "+628111")
	require.NoError(t, err)
	require.Equal(t, 2, sum.TotalStays)
	require.EqualValues(t, 2500, sum.LifetimeValueCents)

	stored, err := agg.Get(context.Background(), 1, "+628111")
	require.NoError(t, err)
	require.Equal(t, 2, stored.TotalStays)
	require.EqualValues(t, 2500, stored.LifetimeValueCents)
}

func TestRefreshIsIdempotent(t *testing.T) {
	reader := &fakeBookings{bookings: map[string][]model.Booking{
		bookingKey(7, "+628222"): {booking(7, "+628222", 900), booking(7, "+628222", 100)},
	}}
	store := newFakeStore()
	agg := NewAggregator(reader, store)

	first, err := agg.Refresh(context.Background(), 7, "+628222")
	require.NoError(t, err)
	second, err := agg.Refresh(context.Background(), 7, "+628222")
	require.NoError(t, err)

	require.Equal(t, first.TotalStays, second.TotalStays)
	require.Equal(t, first.LifetimeValueCents, second.LifetimeValueCents)
	require.Equal(t, 2, store.upserts, "each refresh overwrites, never accumulates")
}

func TestGetReturnsNilWhenNeverRefreshed(t *testing.T) {
	agg := NewAggregator(&fakeBookings{}, newFakeStore())

	sum, err := agg.Get(context.Background(), 1, "+628999")
	require.NoError(t, err)
	require.Nil(t, sum, "no zero-valued record may be synthesized")
}

func TestRefreshPropagatesReadFailure(t *testing.T) {
	readErr := errors.New("booking store unavailable")
	agg := NewAggregator(&fakeBookings{err: readErr}, newFakeStore())

	_, err := agg.Refresh(context.Background(), 1, "+628111")
	require.ErrorIs(t, err, readErr)
}
