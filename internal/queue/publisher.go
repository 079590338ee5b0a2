package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes scheduled send jobs to RabbitMQ
type Publisher struct {
	conn      *Connection
	queueName string
}

// ScheduledSendJob points the worker at one scheduled communication log.
// The log row carries everything else (recipients, body, channel), so a
// redelivered job is safe to process again.
type ScheduledSendJob struct {
	LogID int `json:"log_id"`
}

// NewPublisher creates a publisher and declares the durable queue
func NewPublisher(conn *Connection, queueName string) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Publisher{
		conn:      conn,
		queueName: queueName,
	}, nil
}

// PublishScheduledSend enqueues one scheduled log for dispatch
func (p *Publisher) PublishScheduledSend(logID int) error {
	body, err := json.Marshal(ScheduledSendJob{LogID: logID})
	if err != nil {
		return fmt.Errorf("failed to marshal scheduled send job: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	err = ch.Publish(
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish scheduled send job: %w", err)
	}

	return nil
}
