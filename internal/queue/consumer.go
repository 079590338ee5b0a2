package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer consumes scheduled send jobs from RabbitMQ
type Consumer struct {
	conn      *Connection
	queueName string
	handler   JobHandler
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// JobHandler processes one scheduled send job. A returned error requeues
// the job.
type JobHandler func(job *ScheduledSendJob) error

// NewConsumer creates a consumer and declares the durable queue
func NewConsumer(conn *Connection, queueName string, handler JobHandler) (*Consumer, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
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

	return &Consumer{
		conn:      conn,
		queueName: queueName,
		handler:   handler,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}, nil
}

// Start begins consuming jobs. One job at a time: a scheduled bulk send
// already fans out internally, so worker-level parallelism would multiply
// gateway pressure.
func (c *Consumer) Start() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual acknowledgement)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		defer close(c.doneChan)

		for {
			select {
			case <-c.stopChan:
				return
			case d, ok := <-msgs:
				if !ok {
					log.Println("Delivery channel closed")
					return
				}

				if err := c.processJob(d); err != nil {
					log.Printf("Error processing job: %v", err)
					d.Nack(false, true)
				} else {
					d.Ack(false)
				}
			}
		}
	}()

	log.Printf("Consumer started, listening on queue: %s", c.queueName)
	return nil
}

// Stop stops consuming jobs gracefully
func (c *Consumer) Stop() error {
	close(c.stopChan)
	<-c.doneChan
	return nil
}

func (c *Consumer) processJob(d amqp.Delivery) error {
	var job ScheduledSendJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		return fmt.Errorf("failed to unmarshal scheduled send job: %w", err)
	}

	if err := c.handler(&job); err != nil {
		return fmt.Errorf("handler failed: %w", err)
	}

	return nil
}
