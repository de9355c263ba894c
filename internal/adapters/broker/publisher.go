package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"eventadmission/internal/domain"
)

// StatusQueue receives one message per participation request status change.
const StatusQueue = "participation.status"

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends request status changes to RabbitMQ.
type Publisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    amqpChannel
	queue string
}

// NewPublisher dials url, opens a channel and declares the durable status queue.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		StatusQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, queue: StatusQueue}, nil
}

// PublishStatusChanged sends change as a persistent JSON message on the default exchange.
func (p *Publisher) PublishStatusChanged(ctx context.Context, change domain.RequestStatusChanged) error {
	body, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    change.ChangedAt.UTC(),
		MessageId:    change.RequestID + ":" + string(change.Status),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish status change: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

type noopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher returns a publisher that only logs, for when no broker is configured.
func NewNoopPublisher(logger *slog.Logger) domain.StatusPublisher {
	return &noopPublisher{logger: logger}
}

func (n *noopPublisher) PublishStatusChanged(ctx context.Context, change domain.RequestStatusChanged) error {
	n.logger.DebugContext(ctx, "status change would be published (noop)",
		"request_id", change.RequestID, "status", change.Status)
	return nil
}
