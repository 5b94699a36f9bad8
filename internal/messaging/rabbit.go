// internal/messaging/rabbit.go
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"guest-engage/internal/metrics"
)

const surveyDispatchQueue = "survey_dispatch"

// BookingCompletedEvent is the payload on the per-tenant booking queues.
type BookingCompletedEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
}

// SurveyDispatchMessage is what the messaging service consumes from the
// survey_dispatch queue; rendering and delivery happen over there.
type SurveyDispatchMessage struct {
	BookingID uuid.UUID `json:"booking_id"`
	QueuedAt  time.Time `json:"queued_at"`
}

type RabbitClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger
	URL     string
}

func NewRabbitClient(url string, log *zap.Logger) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return &RabbitClient{
		conn:    conn,
		channel: ch,
		log:     log,
		URL:     url,
	}, nil
}

func (r *RabbitClient) GetChannel() *amqp.Channel {
	return r.channel
}

func (r *RabbitClient) GetConnection() *amqp.Connection {
	return r.conn
}

// BookingQueueName returns the per-tenant booking-completed queue name.
func BookingQueueName(tenantID int64) string {
	return fmt.Sprintf("tenant_%d_bookings", tenantID)
}

// DeclareBookingQueue creates a tenant's durable booking-event queue with
// its dead-letter companion. Events that fail handling end up in the DLQ.
func (r *RabbitClient) DeclareBookingQueue(tenantID int64) error {
	queueName := BookingQueueName(tenantID)
	dlqName := fmt.Sprintf("tenant_%d_bookings_dlq", tenantID)

	// 1. DLQ
	_, err := r.channel.QueueDeclare(
		dlqName,
		true, false, false, false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}

	// 2. Main queue with DLQ binding
	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqName,
	}
	_, err = r.channel.QueueDeclare(
		queueName,
		true, false, false, false,
		args,
	)
	if err != nil {
		return fmt.Errorf("declare booking queue: %w", err)
	}

	r.log.Info("booking queues declared", zap.Int64("tenant_id", tenantID))
	return nil
}

// DeclareSurveyQueue creates the shared outbound survey queue.
func (r *RabbitClient) DeclareSurveyQueue() error {
	_, err := r.channel.QueueDeclare(
		surveyDispatchQueue,
		true, false, false, false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare survey queue: %w", err)
	}
	return nil
}

// PublishBookingCompleted puts a booking-completed event on the tenant's
// queue.
func (r *RabbitClient) PublishBookingCompleted(tenantID int64, bookingID uuid.UUID) error {
	body, err := json.Marshal(BookingCompletedEvent{BookingID: bookingID})
	if err != nil {
		return err
	}

	queueName := BookingQueueName(tenantID)
	err = r.channel.Publish(
		"",        // default exchange
		queueName, // routing key (queue name)
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", queueName, err)
	}
	return nil
}

// SendPostStaySurvey implements survey.Sender by handing the booking off to
// the survey_dispatch queue.
func (r *RabbitClient) SendPostStaySurvey(_ context.Context, bookingID uuid.UUID) error {
	body, err := json.Marshal(SurveyDispatchMessage{
		BookingID: bookingID,
		QueuedAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	err = r.channel.Publish(
		"",
		surveyDispatchQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish survey dispatch: %w", err)
	}
	return nil
}

// Close cleans up connection and channel
func (r *RabbitClient) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	if err := r.conn.Close(); err != nil {
		return err
	}
	return nil
}

func (r *RabbitClient) UpdateQueueDepth(tenantID int64) {
	queueName := BookingQueueName(tenantID)

	q, err := r.channel.QueueInspect(queueName)
	if err != nil {
		r.log.Warn("failed to inspect queue", zap.Int64("tenant_id", tenantID), zap.Error(err))
		return
	}

	metrics.BookingQueueDepth.WithLabelValues(strconv.FormatInt(tenantID, 10)).Set(float64(q.Messages))
}
