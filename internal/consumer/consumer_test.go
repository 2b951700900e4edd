package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/queue"
	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

// fakeBroker redelivers nacked-with-requeue messages, like a real
// queue would.
type fakeBroker struct {
	deliveries chan amqp.Delivery
	lastBody   []byte

	mu    sync.Mutex
	acks  []uint64
	nacks []bool // requeue flag per nack
}

func (b *fakeBroker) Ack(tag uint64, multiple bool) error {
	b.mu.Lock()
	b.acks = append(b.acks, tag)
	b.mu.Unlock()
	return nil
}

func (b *fakeBroker) Nack(tag uint64, multiple, requeue bool) error {
	b.mu.Lock()
	b.nacks = append(b.nacks, requeue)
	b.mu.Unlock()
	if requeue {
		b.deliveries <- amqp.Delivery{
			Acknowledger: b,
			DeliveryTag:  tag,
			Redelivered:  true,
			Body:         b.lastBody,
		}
	}
	return nil
}

func (b *fakeBroker) Reject(tag uint64, requeue bool) error {
	return b.Nack(tag, false, requeue)
}

func (b *fakeBroker) ackCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.acks)
}

func (b *fakeBroker) nackFlags() []bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]bool(nil), b.nacks...)
}

type flakyTransport struct {
	failures int
	sent     []string
}

func (t *flakyTransport) Send(ctx context.Context, to, subject, body string) error {
	if t.failures > 0 {
		t.failures--
		return errors.New("smtp unavailable")
	}
	t.sent = append(t.sent, to)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func encoded(t *testing.T) []byte {
	t.Helper()
	data, err := queue.EncodeConfirmation(models.ConfirmationMessage{
		To:      "a@example.com",
		Subject: "Your Order Confirmation",
		Body:    "Dear A, your order #1 has been received.",
	})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestRedeliveryUntilSendSucceeds(t *testing.T) {
	broker := &fakeBroker{deliveries: make(chan amqp.Delivery, 4)}
	broker.lastBody = encoded(t)
	broker.deliveries <- amqp.Delivery{Acknowledger: broker, DeliveryTag: 1, Body: broker.lastBody}

	transport := &flakyTransport{failures: 2}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = run(ctx, broker.deliveries, transport, discard())
	}()

	waitFor(t, func() bool { return broker.ackCount() == 1 })
	cancel()
	<-done

	if len(transport.sent) != 1 || transport.sent[0] != "a@example.com" {
		t.Fatalf("sent = %v, want one send to a@example.com", transport.sent)
	}
	nacks := broker.nackFlags()
	if len(nacks) != 2 {
		t.Fatalf("nacks = %d, want 2", len(nacks))
	}
	for _, requeue := range nacks {
		if !requeue {
			t.Fatal("transport failure must nack with requeue=true")
		}
	}
	if broker.ackCount() != 1 {
		t.Fatalf("acks = %d, want exactly 1", broker.ackCount())
	}
}

func TestMalformedEnvelopeDropped(t *testing.T) {
	broker := &fakeBroker{deliveries: make(chan amqp.Delivery, 1)}
	broker.deliveries <- amqp.Delivery{Acknowledger: broker, DeliveryTag: 1, Body: []byte("garbage")}

	transport := &flakyTransport{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = run(ctx, broker.deliveries, transport, discard())
	}()

	waitFor(t, func() bool { return len(broker.nackFlags()) == 1 })
	cancel()
	<-done

	if broker.nackFlags()[0] {
		t.Fatal("malformed envelope must not be requeued")
	}
	if len(transport.sent) != 0 {
		t.Fatal("malformed envelope must not reach the transport")
	}
	if broker.ackCount() != 0 {
		t.Fatal("malformed envelope must not be acked")
	}
}

func TestStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	deliveries := make(chan amqp.Delivery)
	if err := run(ctx, deliveries, &flakyTransport{}, discard()); err != nil {
		t.Fatal(err)
	}
}

func TestStopsOnClosedChannel(t *testing.T) {
	deliveries := make(chan amqp.Delivery)
	close(deliveries)
	if err := run(context.Background(), deliveries, &flakyTransport{}, discard()); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}
