package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Broker is the piece of the RabbitMQ connection the publisher needs.
type Broker interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Publisher pushes change events to the broker after the corresponding row
// is committed. The routing key is the row key, which keeps per-order
// publish order intact.
type Publisher struct {
	broker Broker
	logger *zap.Logger
}

func NewPublisher(broker Broker, logger *zap.Logger) *Publisher {
	return &Publisher{broker: broker, logger: logger}
}

func (p *Publisher) PublishEvent(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling change event: %w", err)
	}

	key := fmt.Sprintf("%s.%s", e.Table, e.RowID)
	if err := p.broker.Publish(ctx, key, body); err != nil {
		return fmt.Errorf("publishing change event: %w", err)
	}

	p.logger.Debug("change event published",
		zap.String("table", e.Table),
		zap.String("type", string(e.Type)),
		zap.String("rowId", e.RowID),
	)
	return nil
}
