package producer

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/queue"
	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

// ErrPublish is the broker-failure kind surfaced when an enqueue is
// rejected or the broker is unreachable.
var ErrPublish = errors.New("message queue unavailable")

const confirmationSubject = "Your Order Confirmation"

// Channel is the slice of amqp.Channel the publisher needs; tests
// substitute a recorder.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher enqueues order-confirmation messages to the durable mail
// queue. It blocks only on the broker's enqueue acknowledgment, never
// on consumer-side processing.
type Publisher struct {
	ch     Channel
	queue  string
	tracer trace.Tracer
}

func NewPublisher(ch Channel, queueName string, tracer trace.Tracer) *Publisher {
	return &Publisher{ch: ch, queue: queueName, tracer: tracer}
}

// PublishOrderConfirmation builds the confirmation envelope for a
// created order and publishes it persistently.
func (p *Publisher) PublishOrderConfirmation(ctx context.Context, o models.Order) error {
	ctx, span := p.tracer.Start(ctx, "producer.PublishOrderConfirmation")
	defer span.End()

	msg := buildConfirmation(o)
	body, err := queue.EncodeConfirmation(msg)
	if err != nil {
		return err
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	span.SetAttributes(attribute.String("order.id", o.ID.String()))
	return nil
}

func buildConfirmation(o models.Order) models.ConfirmationMessage {
	return models.ConfirmationMessage{
		To:      o.CustomerEmail,
		Subject: confirmationSubject,
		Body:    fmt.Sprintf("Dear %s, your order #%s has been received.", o.CustomerName, o.ID),
	}
}
