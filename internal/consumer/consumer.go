// internal/consumer/consumer.go
package consumer

import (
	"fmt"
	"strconv"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"guest-engage/internal/messaging"
	"guest-engage/internal/metrics"
)

// EventHandlerFunc processes one booking-completed delivery. A returned
// error rejects the delivery to the DLQ.
type EventHandlerFunc func(tenantID int64, delivery amqp.Delivery) error

// Consumer holds control channels and metadata for a running tenant consumer
type Consumer struct {
	TenantID    int64
	QueueName   string
	Channel     *amqp.Channel
	StopChan    chan struct{}
	DoneChan    chan struct{}
	Handler     EventHandlerFunc
	ConsumerTag string

	log *zap.Logger
}

// StartConsumer starts a goroutine consuming booking-completed events for a
// tenant.
func StartConsumer(conn *amqp.Connection, tenantID int64, handler EventHandlerFunc, log *zap.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("tenant %d: failed to open channel: %w", tenantID, err)
	}

	queueName := messaging.BookingQueueName(tenantID)
	consumerTag := fmt.Sprintf("engage-%d", tenantID)

	msgs, err := ch.Consume(
		queueName,
		consumerTag,
		false, // autoAck: false to handle manually
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("tenant %d: failed to start consuming: %w", tenantID, err)
	}

	c := &Consumer{
		TenantID:    tenantID,
		QueueName:   queueName,
		Channel:     ch,
		StopChan:    make(chan struct{}),
		DoneChan:    make(chan struct{}),
		Handler:     handler,
		ConsumerTag: consumerTag,
		log:         log,
	}

	go c.consumeLoop(msgs)

	log.Info("started booking consumer", zap.Int64("tenant_id", tenantID))
	return c, nil
}

// consumeLoop processes events until StopChan is closed
func (c *Consumer) consumeLoop(msgs <-chan amqp.Delivery) {
	label := strconv.FormatInt(c.TenantID, 10)
	metrics.ConsumersActive.WithLabelValues(label).Inc()
	defer func() {
		metrics.ConsumersActive.WithLabelValues(label).Dec()
		close(c.DoneChan)
	}()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				c.log.Info("delivery channel closed", zap.Int64("tenant_id", c.TenantID))
				return
			}

			if err := c.Handler(c.TenantID, msg); err != nil {
				c.log.Warn("event handling failed",
					zap.Int64("tenant_id", c.TenantID), zap.Error(err))
				_ = msg.Reject(false) // send to DLQ
				continue
			}
			_ = msg.Ack(false)

		case <-c.StopChan:
			_ = c.Channel.Cancel(c.ConsumerTag, false)
			return
		}
	}
}

// Stop signals the consumer to stop and waits for cleanup
func (c *Consumer) Stop() {
	close(c.StopChan)
	<-c.DoneChan
	_ = c.Channel.Close()
	c.log.Info("stopped booking consumer", zap.Int64("tenant_id", c.TenantID))
}
