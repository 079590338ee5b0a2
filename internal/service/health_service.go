package service

import (
	"context"
	"database/sql"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Health status constants
const (
	StatusHealthy      = "healthy"
	StatusDegraded     = "degraded"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// HealthStatus represents the overall health status of the application
type HealthStatus struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
}

// HealthChecker handles health check operations
type HealthChecker struct {
	db       *sql.DB
	queueURL string
	version  string
}

// NewHealthService creates a new HealthChecker instance
func NewHealthService(db *sql.DB, queueURL, version string) *HealthChecker {
	return &HealthChecker{
		db:       db,
		queueURL: queueURL,
		version:  version,
	}
}

func (h *HealthChecker) checkDatabase() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return StatusDisconnected
	}
	return StatusConnected
}

func (h *HealthChecker) checkQueue() string {
	conn, err := amqp.Dial(h.queueURL)
	if err != nil {
		return StatusDisconnected
	}
	defer conn.Close()

	return StatusConnected
}

// CheckHealth performs health checks on all dependencies. The database is
// required for every operation, so losing it means unhealthy; losing only
// the queue degrades scheduled sends but synchronous bulk-send still works.
func (h *HealthChecker) CheckHealth() (*HealthStatus, error) {
	services := map[string]string{
		"database": h.checkDatabase(),
		"queue":    h.checkQueue(),
	}

	status := StatusHealthy
	if services["queue"] == StatusDisconnected {
		status = StatusDegraded
	}
	if services["database"] == StatusDisconnected {
		status = StatusUnhealthy
	}

	return &HealthStatus{
		Status:    status,
		Services:  services,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}, nil
}
