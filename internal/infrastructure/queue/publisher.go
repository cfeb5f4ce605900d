// Package queue publishes account audit events to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/optatrack/account-service/internal/core/ports"
)

// AuditPublisher delivers audit events to a fanout exchange. Delivery is
// best-effort: the account flows never block or fail on broker trouble.
type AuditPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      zerolog.Logger
}

// NewAuditPublisher dials the broker and declares a durable fanout exchange.
func NewAuditPublisher(url, exchange string, log zerolog.Logger) (*AuditPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}

	return &AuditPublisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// Publish sends one audit event as a persistent JSON message. The event type
// doubles as the routing key for consumers that bind selectively.
func (p *AuditPublisher) Publish(ctx context.Context, event ports.AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}

	p.log.Debug().Str("event_type", event.Type).Str("user_id", event.UserID).Msg("audit event published")
	return nil
}

// Close releases the channel and connection.
func (p *AuditPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
