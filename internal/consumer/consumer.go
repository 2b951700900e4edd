// Package consumer drains the confirmation queue and drives the mail
// transport. Delivery is at-least-once: a failed send is requeued and
// retried indefinitely, so duplicate sends are possible and accepted.
package consumer

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/mail"
	"github.com/srcnozturk/ECommerce-Mobiliva/internal/queue"
	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

// outcome of one delivered message, driving the ack/requeue decision.
type outcome int

const (
	delivered outcome = iota
	transportFailed
	malformed
)

// StartMailConsumer opens its own channel on the connection, declares
// the queue and consumes it one message at a time until ctx is
// cancelled. The in-flight message is allowed to finish.
func StartMailConsumer(ctx context.Context, conn *amqp.Connection, queueName string, transport mail.Transport, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := queue.DeclareMailQueue(ch, queueName); err != nil {
		return err
	}
	// prefetch 1: the broker hands over the next message only after
	// the previous one is acked or nacked, preserving queue order.
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}
	deliveries, err := ch.ConsumeWithContext(ctx, queueName,
		"",    // consumer tag
		false, // autoAck: acknowledgment is manual
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}
	return run(ctx, deliveries, transport, logger)
}

func run(ctx context.Context, deliveries <-chan amqp.Delivery, transport mail.Transport, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			// the send itself runs detached from the stop signal so a
			// shutdown does not strand a half-processed message
			handle(context.WithoutCancel(ctx), d, transport, logger)
		}
	}
}

func handle(ctx context.Context, d amqp.Delivery, transport mail.Transport, logger *slog.Logger) {
	msg, result := process(ctx, d.Body, transport)
	switch result {
	case delivered:
		if err := d.Ack(false); err != nil {
			logger.Error("ack", "err", err)
			return
		}
		mailsSent.Inc()
		logger.Info("confirmation sent", "to", msg.To)
	case transportFailed:
		// requeue=true: redelivered until the transport succeeds or an
		// operator intervenes
		if err := d.Nack(false, true); err != nil {
			logger.Error("nack", "err", err)
			return
		}
		mailsRequeued.Inc()
		logger.Error("send failed, requeued", "to", msg.To)
	case malformed:
		// undecodable payloads can never succeed; drop rather than loop
		if err := d.Nack(false, false); err != nil {
			logger.Error("nack", "err", err)
			return
		}
		mailsMalformed.Inc()
		logger.Error("malformed confirmation dropped")
	}
}

func process(ctx context.Context, body []byte, transport mail.Transport) (models.ConfirmationMessage, outcome) {
	m, err := queue.DecodeConfirmation(body)
	if err != nil {
		return models.ConfirmationMessage{}, malformed
	}
	if err := transport.Send(ctx, m.To, m.Subject, m.Body); err != nil {
		return m, transportFailed
	}
	return m, delivered
}
