package gateway

import (
	"context"

	"propertypulse/internal/models"
)

// Gateway is the outbound message transport. A nil error means the gateway
// accepted the message; any error is recorded as a failed delivery outcome
// for that one recipient and never aborts the rest of a batch.
type Gateway interface {
	Send(ctx context.Context, channel models.Channel, address, subject, body string) error
}
