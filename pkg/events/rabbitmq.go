package events

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the subset of *amqp.Channel the publisher uses
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes domain events to durable RabbitMQ queues, one
// queue per event type on the default exchange.
type RabbitMQPublisher struct {
	conn        *amqp.Connection
	channel     amqpChannel
	queuePrefix string

	mu       sync.Mutex
	declared map[string]bool
}

// NewRabbitMQPublisher dials the broker and opens a channel
func NewRabbitMQPublisher(url, queuePrefix string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}

	p := newRabbitMQPublisher(ch, queuePrefix)
	p.conn = conn
	return p, nil
}

func newRabbitMQPublisher(ch amqpChannel, queuePrefix string) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		channel:     ch,
		queuePrefix: queuePrefix,
		declared:    make(map[string]bool),
	}
}

// Queue returns the queue name for an event type
func (r *RabbitMQPublisher) Queue(eventType string) string {
	return r.queuePrefix + "." + eventType
}

// Publish declares the event's queue on first use and publishes a persistent message
func (r *RabbitMQPublisher) Publish(ctx context.Context, event *Event) error {
	queue := r.Queue(event.Type)

	r.mu.Lock()
	if !r.declared[queue] {
		if _, err := r.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			r.mu.Unlock()
			return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
		}
		r.declared[queue] = true
	}
	r.mu.Unlock()

	body, err := event.ToJSON()
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	if err := r.channel.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	return nil
}

// Close closes the channel and the connection
func (r *RabbitMQPublisher) Close() error {
	var firstErr error
	if err := r.channel.Close(); err != nil {
		firstErr = err
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
