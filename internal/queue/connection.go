package queue

import (
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ScheduledSendQueue is the durable queue carrying scheduled bulk-send jobs
const ScheduledSendQueue = "scheduled_sends"

// Connection wraps a RabbitMQ connection and channel with reconnect support
type Connection struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	url     string
	mu      sync.Mutex
}

// NewConnection dials RabbitMQ and opens a channel
func NewConnection(url string) (*Connection, error) {
	if url == "" {
		return nil, errors.New("rabbitmq url cannot be empty")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return &Connection{
		conn:    conn,
		channel: channel,
		url:     url,
	}, nil
}

// Channel returns the channel, reconnecting if the connection dropped
func (c *Connection) Channel() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel == nil || c.conn == nil || c.conn.IsClosed() {
		log.Println("RabbitMQ channel closed, reconnecting...")
		if err := c.reconnect(); err != nil {
			return nil, fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	return c.channel, nil
}

func (c *Connection) reconnect() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to reconnect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create channel on reconnect: %w", err)
	}

	c.conn = conn
	c.channel = channel
	log.Println("Reconnected to RabbitMQ")
	return nil
}

// Close closes the channel and connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
		c.conn = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

// IsConnected checks if the connection is active
func (c *Connection) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil && !c.conn.IsClosed() && c.channel != nil
}
