package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"china-one/internal/config"
)

const reconnectInterval = 5 * time.Second

// Conn wraps a RabbitMQ connection and channel with a declared fanout
// exchange and a bound queue. Publish confirms are enabled so committed
// writes are not silently dropped by a closed channel.
type Conn struct {
	cfg    config.RabbitMQConfig
	logger *zap.Logger

	mu           sync.Mutex
	conn         *amqp.Connection
	ch           *amqp.Channel
	reconnecting bool
}

func New(cfg config.RabbitMQConfig, logger *zap.Logger) (*Conn, error) {
	c := &Conn{cfg: cfg, logger: logger}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Conn) connect() error {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		c.cfg.User, c.cfg.Password, c.cfg.Host, c.cfg.Port, vhostPath(c.cfg.VHost),
	))
	if err != nil {
		return fmt.Errorf("dialing rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("opening channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return fmt.Errorf("enabling publisher confirms: %w", err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "fanout", true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declaring exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declaring queue: %w", err)
	}

	if err := ch.QueueBind(c.cfg.Queue, "", c.cfg.Exchange, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("binding queue: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

func vhostPath(vhost string) string {
	if vhost == "" || vhost == "/" {
		return "/"
	}
	return "/" + vhost
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil && !c.ch.IsClosed() {
		if err := c.ch.Close(); err != nil {
			return fmt.Errorf("closing rabbitmq channel: %w", err)
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("closing rabbitmq connection: %w", err)
		}
	}
	return nil
}

// Publish sends a persistent JSON body to the fanout exchange. A closed
// connection triggers a background reconnect and an immediate error; the
// caller decides whether the write is worth retrying.
func (c *Conn) Publish(ctx context.Context, routingKey string, body []byte) error {
	c.mu.Lock()
	closed := c.conn == nil || c.conn.IsClosed()
	ch := c.ch
	c.mu.Unlock()

	if closed {
		go c.reconnect(context.Background())
		return fmt.Errorf("rabbitmq: connection lost")
	}

	return ch.PublishWithContext(ctx, c.cfg.Exchange, routingKey, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
}

// Consume returns the delivery stream for the bound queue. Deliveries must
// be acked by the consumer.
func (c *Conn) Consume(ctx context.Context, consumerTag string) (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch == nil || c.ch.IsClosed() {
		return nil, fmt.Errorf("rabbitmq: channel closed")
	}
	return c.ch.ConsumeWithContext(ctx, c.cfg.Queue, consumerTag, false, false, false, false, nil)
}

func (c *Conn) reconnect(ctx context.Context) {
	c.mu.Lock()
	if c.reconnecting {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		c.mu.Unlock()
	}()

	t := time.NewTicker(reconnectInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			c.mu.Lock()
			err := c.connect()
			c.mu.Unlock()
			if err == nil {
				c.logger.Info("rabbitmq reconnected")
				return
			}
			c.logger.Warn("rabbitmq reconnect failed", zap.Error(err))
		case <-ctx.Done():
			return
		}
	}
}
