// Package rabbitmq publishes application events to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/phrazzld/tasklist-api/internal/events"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
)

// DefaultExchange is the topic exchange notification events go to.
const DefaultExchange = "events"

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
	Close() error
}

// Publisher forwards events to a topic exchange using the event type as the
// routing key. It implements events.EventHandler.
type Publisher struct {
	conn     io.Closer
	ch       channel
	exchange string
	logger   *slog.Logger
}

var _ events.EventHandler = (*Publisher)(nil)

// Dial connects to the broker, opens a channel and declares exchange as a
// durable topic exchange.
func Dial(url, exchange string, log *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return newPublisher(conn, ch, exchange, log), nil
}

func newPublisher(conn io.Closer, ch channel, exchange string, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		logger:   log.With(slog.String("component", "rabbitmq_publisher")),
	}
}

// HandleEvent publishes the event envelope as persistent JSON.
func (p *Publisher) HandleEvent(ctx context.Context, event *events.Event) error {
	log := logger.FromContextOrDefault(ctx, p.logger)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.CreatedAt,
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		log.Error("failed to publish event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug("event published",
		slog.String("event_id", event.ID.String()),
		slog.String("exchange", p.exchange),
		slog.String("routing_key", event.Type))
	return nil
}

// Close closes the channel and then the connection.
func (p *Publisher) Close() error {
	var firstErr error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// publishTimeout bounds a single publish when the caller's context has no deadline.
const publishTimeout = 5 * time.Second

// WithTimeout wraps the publisher so each publish gets its own deadline.
func (p *Publisher) WithTimeout() events.EventHandler {
	return events.HandlerFunc(func(ctx context.Context, event *events.Event) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, publishTimeout)
			defer cancel()
		}
		return p.HandleEvent(ctx, event)
	})
}
