// internal/manager/engagement_manager.go
package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"guest-engage/internal/consumer"
	"guest-engage/internal/guestmetrics"
	"guest-engage/internal/messaging"
	"guest-engage/internal/storage"
	"guest-engage/internal/survey"
)

// EngagementManager owns the event-time half of the core: one consumer per
// tenant feeding booking-completed events through the metrics refresh and
// the survey orchestrator.
type EngagementManager struct {
	rabbitConn   *amqp.Connection
	rabbit       *messaging.RabbitClient
	storage      *storage.Storage
	aggregator   *guestmetrics.Aggregator
	orchestrator *survey.Orchestrator
	log          *zap.Logger

	mu        sync.RWMutex
	consumers map[int64]*consumer.Consumer
}

func NewEngagementManager(
	rabbitConn *amqp.Connection,
	rabbit *messaging.RabbitClient,
	storage *storage.Storage,
	aggregator *guestmetrics.Aggregator,
	orchestrator *survey.Orchestrator,
	log *zap.Logger,
) *EngagementManager {
	return &EngagementManager{
		rabbitConn:   rabbitConn,
		rabbit:       rabbit,
		storage:      storage,
		aggregator:   aggregator,
		orchestrator: orchestrator,
		log:          log,
		consumers:    make(map[int64]*consumer.Consumer),
	}
}

// AddTenant declares the tenant's booking queues and spawns its consumer.
func (m *EngagementManager) AddTenant(tenantID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.consumers[tenantID]; exists {
		return nil // already running
	}

	if err := m.rabbit.DeclareBookingQueue(tenantID); err != nil {
		return err
	}

	c, err := consumer.StartConsumer(m.rabbitConn, tenantID, m.handleEvent, m.log)
	if err != nil {
		return err
	}
	m.consumers[tenantID] = c

	m.log.Info("tenant registered", zap.Int64("tenant_id", tenantID))
	return nil
}

// RemoveTenant stops the consumer, deletes the queue, and removes from map
func (m *EngagementManager) RemoveTenant(tenantID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, exists := m.consumers[tenantID]
	if !exists {
		return nil // nothing to remove
	}

	c.Stop()

	queueName := messaging.BookingQueueName(tenantID)
	if _, err := m.rabbit.GetChannel().QueueDelete(queueName, false, false, false); err != nil {
		m.log.Warn("failed to delete queue", zap.String("queue", queueName), zap.Error(err))
	}

	delete(m.consumers, tenantID)

	m.log.Info("tenant removed", zap.Int64("tenant_id", tenantID))
	return nil
}

// ShutdownAll stops every tenant consumer.
func (m *EngagementManager) ShutdownAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, c := range m.consumers {
		c.Stop()
		m.log.Info("stopped tenant", zap.Int64("tenant_id", id))
	}
	m.consumers = make(map[int64]*consumer.Consumer)
}

// handleEvent is the callback for one booking-completed delivery: refresh
// the guest's summary, then run the survey decision. A returned error sends
// the delivery to the DLQ.
func (m *EngagementManager) handleEvent(tenantID int64, msg amqp.Delivery) error {
	var event messaging.BookingCompletedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("bad event payload: %w", err)
	}

	ctx := context.Background()

	booking, err := m.storage.BookingByID(ctx, event.BookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found", event.BookingID)
	}
	if booking.TenantID != tenantID {
		return fmt.Errorf("booking %s does not belong to tenant %d", event.BookingID, tenantID)
	}

	// Guests without a phone have no summary key; they also never get a
	// survey, so the dispatch below records the not-eligible decision.
	if booking.GuestPhone != "" {
		if _, err := m.aggregator.Refresh(ctx, tenantID, booking.GuestPhone); err != nil {
			return err
		}
	}

	decision, err := m.orchestrator.Dispatch(ctx, *booking)
	if err != nil {
		// Budget was already consumed; re-delivering would not help.
		m.log.Warn("survey send failed",
			zap.String("booking_id", booking.ID.String()), zap.Error(err))
		return nil
	}

	m.log.Debug("booking processed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("decision", string(decision)))
	return nil
}

// ListTenantIDs returns all currently registered tenant ids.
func (m *EngagementManager) ListTenantIDs() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.consumers))
	for id := range m.consumers {
		ids = append(ids, id)
	}
	return ids
}
