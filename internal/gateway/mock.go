package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"propertypulse/internal/models"
)

// MockGateway simulates an outbound gateway for development and tests.
// successRate is the probability of a successful send (0.0 to 1.0).
type MockGateway struct {
	successRate float64

	mu   sync.Mutex
	rand *rand.Rand
}

// NewMockGateway creates a mock gateway with the given success rate.
func NewMockGateway(successRate float64) *MockGateway {
	if successRate < 0.0 {
		successRate = 0.0
	}
	if successRate > 1.0 {
		successRate = 1.0
	}

	return &MockGateway{
		successRate: successRate,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Send simulates a gateway call with network latency and a configurable
// failure rate. The email channel behaves like the live gateway: not
// configured.
func (g *MockGateway) Send(ctx context.Context, channel models.Channel, address, subject, body string) error {
	if channel != models.ChannelSMS {
		return ErrEmailNotConfigured
	}

	g.mu.Lock()
	latency := time.Duration(50+g.rand.Intn(150)) * time.Millisecond
	roll := g.rand.Float64()
	g.mu.Unlock()

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return ctx.Err()
	}

	if roll >= g.successRate {
		failures := []string{
			"network timeout",
			"invalid phone number",
			"rate limit exceeded",
			"service temporarily unavailable",
			"insufficient balance",
		}
		g.mu.Lock()
		reason := failures[g.rand.Intn(len(failures))]
		g.mu.Unlock()
		return fmt.Errorf("failed to send to %s: %s", address, reason)
	}

	return nil
}
