// internal/survey/orchestrator.go
package survey

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"guest-engage/internal/metrics"
	"guest-engage/internal/model"
	"guest-engage/internal/ratelimit"
)

// Decision is the outcome of one dispatch pass. It is not persisted;
// prometheus counters are the only record.
type Decision string

const (
	DecisionNotEligible Decision = "not-eligible"
	DecisionRateLimited Decision = "rate-limited"
	DecisionDispatched  Decision = "dispatched"
)

// Sender delivers the survey. Fire-and-forget from this side: retries and
// delivery failures are the messaging service's concern.
type Sender interface {
	SendPostStaySurvey(ctx context.Context, bookingID uuid.UUID) error
}

// Orchestrator is the single entry point for a completed booking: decide
// eligibility, claim outbound budget, dispatch.
type Orchestrator struct {
	limiter ratelimit.Acquirer
	sender  Sender
	log     *zap.Logger
}

func NewOrchestrator(limiter ratelimit.Acquirer, sender Sender, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		limiter: limiter,
		sender:  sender,
		log:     log,
	}
}

// Dispatch runs one orchestration pass. The send port is called at most
// once. A rate-limited survey is dropped, not queued; the caller sees the
// decision and the counter records it. When the decision is
// DecisionDispatched a non-nil error means the send port itself failed
// after budget was consumed.
func (o *Orchestrator) Dispatch(ctx context.Context, b model.Booking) (Decision, error) {
	if !Eligible(b) {
		// Expected, frequent path. Not an error, not worth a log line.
		metrics.SurveyDecisions.WithLabelValues(string(DecisionNotEligible)).Inc()
		return DecisionNotEligible, nil
	}

	if !o.limiter.TryAcquire(ctx, b.TenantID) {
		o.log.Info("survey dropped, outbound budget exhausted",
			zap.String("booking_id", b.ID.String()),
			zap.Int64("tenant_id", b.TenantID))
		metrics.SurveyDecisions.WithLabelValues(string(DecisionRateLimited)).Inc()
		return DecisionRateLimited, nil
	}

	metrics.SurveyDecisions.WithLabelValues(string(DecisionDispatched)).Inc()
	if err := o.sender.SendPostStaySurvey(ctx, b.ID); err != nil {
		return DecisionDispatched, err
	}
	return DecisionDispatched, nil
}
