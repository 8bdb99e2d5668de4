package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

// MessagePublisher sends one chat turn per delivery so the worker stores
// the turn atomically and in order.
type MessagePublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewMessagePublisher(conn *amqp.Connection, queueName string) *MessagePublisher {
	return &MessagePublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *MessagePublisher) Publish(ctx context.Context, messages []model.ChatMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal message batch failed: %w", err)
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
		return fmt.Errorf("publish message batch failed: %w", err)
	}
	return nil
}

// DeclareQueue declares the durable queue shared by publisher and worker.
func DeclareQueue(ch *amqp.Channel, name string) error {
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s failed: %w", name, err)
	}
	return nil
}
