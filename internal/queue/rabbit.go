package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connect dials the broker. The publisher and the consumer each open
// their own channel on the returned connection; amqp channels are not
// safe for sharing across goroutines.
func Connect(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	return conn, nil
}

// DeclareMailQueue declares the durable confirmation queue on the
// given channel. Declaration is idempotent, so both sides of the
// pipeline call it and either may start first.
func DeclareMailQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(name,
		true,  // durable: survives a broker restart
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %q: %w", name, err)
	}
	return nil
}
