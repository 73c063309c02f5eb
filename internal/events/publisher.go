package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const exchange = "nana.events"

// Publisher dispatches a domain event. Implementations must be safe to call
// after a database commit; a publish failure is the implementation's problem
// to log, never the caller's to surface.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// AMQPPublisher publishes JSON events to a topic exchange.
type AMQPPublisher struct {
	ch *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}

	return &AMQPPublisher{ch: ch}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// MessageId lets consumers deduplicate redeliveries.
	return p.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.NewString(),
		Timestamp:   time.Now(),
		Body:        body,
	})
}

// NopPublisher is used when AMQP_URL is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// Emit publishes best-effort and logs the failure.
func Emit(ctx context.Context, p Publisher, routingKey string, event any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, event); err != nil {
		slog.Error("event publish failed", "routing_key", routingKey, "error", err)
	}
}
