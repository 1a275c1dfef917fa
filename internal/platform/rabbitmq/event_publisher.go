package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"lsb-music/internal/model"
)

// SessionEventPublisher pushes session-saved events onto a durable queue for
// the export worker. A fresh channel per publish keeps the shared connection
// safe for concurrent callers.
type SessionEventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewSessionEventPublisher(conn *amqp.Connection, queueName string) *SessionEventPublisher {
	return &SessionEventPublisher{conn: conn, queueName: queueName}
}

func (p *SessionEventPublisher) Publish(ctx context.Context, event model.SessionSavedEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal session event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish session event failed: %w", err)
	}
	return nil
}
