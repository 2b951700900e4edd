package producer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/queue"
	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	f.keys = append(f.keys, key)
	return nil
}

func testOrder() models.Order {
	return models.Order{
		ID:            uuid.New(),
		CustomerName:  "A",
		CustomerEmail: "a@example.com",
		TotalAmount:   decimal.RequireFromString("9.99"),
	}
}

func TestPublishOrderConfirmation(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "SendMail", noop.NewTracerProvider().Tracer("test"))

	o := testOrder()
	if err := p.PublishOrderConfirmation(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	if len(ch.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(ch.published))
	}
	if ch.keys[0] != "SendMail" {
		t.Fatalf("routing key %q, want SendMail", ch.keys[0])
	}
	pub := ch.published[0]
	if pub.DeliveryMode != amqp.Persistent {
		t.Fatal("message not marked persistent")
	}
	msg, err := queue.DecodeConfirmation(pub.Body)
	if err != nil {
		t.Fatal(err)
	}
	if msg.To != "a@example.com" {
		t.Fatalf("recipient %q", msg.To)
	}
	if msg.Subject != "Your Order Confirmation" {
		t.Fatalf("subject %q", msg.Subject)
	}
	want := "Dear A, your order #" + o.ID.String() + " has been received."
	if msg.Body != want {
		t.Fatalf("body %q, want %q", msg.Body, want)
	}
}

func TestPublishBrokerFailure(t *testing.T) {
	ch := &fakeChannel{err: errors.New("connection reset")}
	p := NewPublisher(ch, "SendMail", noop.NewTracerProvider().Tracer("test"))

	err := p.PublishOrderConfirmation(context.Background(), testOrder())
	if !errors.Is(err, ErrPublish) {
		t.Fatalf("err = %v, want ErrPublish", err)
	}
}
