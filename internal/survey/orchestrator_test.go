package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"guest-engage/internal/model"
)

type fakeLimiter struct {
	allow bool
	calls int
}

func (f *fakeLimiter) TryAcquire(_ context.Context, _ int64) bool {
	f.calls++
	return f.allow
}

type fakeSender struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeSender) SendPostStaySurvey(_ context.Context, bookingID uuid.UUID) error {
	f.calls = append(f.calls, bookingID)
	return f.err
}

func eligibleBooking() model.Booking {
	return model.Booking{
		ID:         uuid.New(),
		TenantID:   1,
		GuestPhone: "+6281234567890",
	}
}

func TestDispatchSendsExactlyOnce(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	sender := &fakeSender{}
	o := NewOrchestrator(limiter, sender, zap.NewNop())

	b := eligibleBooking()
	decision, err := o.Dispatch(context.Background(), b)
	require.NoError(t, err)
	require.Equal(t, DecisionDispatched, decision)
	require.Equal(t, []uuid.UUID{b.ID}, sender.calls)
}

func TestDispatchNotEligibleSkipsLimiterAndSender(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	sender := &fakeSender{}
	o := NewOrchestrator(limiter, sender, zap.NewNop())

	b := eligibleBooking()
	b.SurveyOptOut = true

	decision, err := o.Dispatch(context.Background(), b)
	require.NoError(t, err)
	require.Equal(t, DecisionNotEligible, decision)
	require.Zero(t, limiter.calls, "ineligible bookings must not consume budget")
	require.Empty(t, sender.calls)
}

func TestDispatchRateLimitedDropsSend(t *testing.T) {
	limiter := &fakeLimiter{allow: false}
	sender := &fakeSender{}
	o := NewOrchestrator(limiter, sender, zap.NewNop())

	decision, err := o.Dispatch(context.Background(), eligibleBooking())
	require.NoError(t, err, "exhaustion is an outcome, not an error")
	require.Equal(t, DecisionRateLimited, decision)
	require.Empty(t, sender.calls)
}

func TestDispatchSurfacesSendFailure(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	sender := &fakeSender{err: errors.New("broker down")}
	o := NewOrchestrator(limiter, sender, zap.NewNop())

	decision, err := o.Dispatch(context.Background(), eligibleBooking())
	require.Error(t, err)
	require.Equal(t, DecisionDispatched, decision, "budget was consumed, the attempt happened")
	require.Len(t, sender.calls, 1)
}
