package feed

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer is the piece of the RabbitMQ connection the subscriber needs.
type Consumer interface {
	Consume(ctx context.Context, consumerTag string) (<-chan amqp.Delivery, error)
}

// Subscriber drains the broker queue into the hub. It is the single reader
// of the queue, which preserves per-order delivery order downstream.
type Subscriber struct {
	consumer Consumer
	hub      *Hub
	logger   *zap.Logger
}

func NewSubscriber(consumer Consumer, hub *Hub, logger *zap.Logger) *Subscriber {
	return &Subscriber{consumer: consumer, hub: hub, logger: logger}
}

// Run consumes until the context is cancelled or the delivery stream
// closes. Malformed messages are acked and dropped; everything else is
// acked after broadcast (at-least-once end to end).
func (s *Subscriber) Run(ctx context.Context) error {
	deliveries, err := s.consumer.Consume(ctx, "change-feed")
	if err != nil {
		return err
	}

	s.logger.Info("change feed subscriber started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				s.logger.Warn("change feed delivery stream closed")
				return nil
			}
			s.handle(d)
		}
	}
}

func (s *Subscriber) handle(d amqp.Delivery) {
	var e Event
	if err := json.Unmarshal(d.Body, &e); err != nil {
		s.logger.Warn("dropping malformed change event", zap.Error(err))
		d.Ack(false)
		return
	}

	s.hub.Broadcast(e)

	// Best effort, mirrors the storefront's new-order chime: a failure here
	// must not interrupt anything.
	if e.Table == TableOrders && e.Type == EventInsert {
		s.logger.Info("new order received",
			zap.Uint("orderId", e.OrderID),
			zap.String("status", e.Status),
		)
	}

	if err := d.Ack(false); err != nil {
		s.logger.Warn("acking change event failed", zap.Error(err))
	}
}
