package models

import (
	"fmt"
	"time"
)

// Channel represents a delivery channel for outbound messages
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// IsValidChannel checks if a channel string is a known delivery channel
func IsValidChannel(s string) bool {
	return Channel(s) == ChannelSMS || Channel(s) == ChannelEmail
}

// ChannelAffinity declares which channels a template is written for
type ChannelAffinity string

const (
	AffinitySMS   ChannelAffinity = "sms"
	AffinityEmail ChannelAffinity = "email"
	AffinityBoth  ChannelAffinity = "both"
)

// MessageTemplate represents a reusable message template with {placeholder}
// tokens. Templates are never referenced by communication logs (logs snapshot
// the body), so deleting one has no retroactive effect.
type MessageTemplate struct {
	ID              int             `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	ChannelAffinity ChannelAffinity `json:"type" db:"channel_affinity"`
	Category        string          `json:"category" db:"category"`
	Subject         *string         `json:"subject,omitempty" db:"subject"`
	Body            string          `json:"body" db:"body"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Validate checks if the template fields are valid
func (t *MessageTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if t.Body == "" {
		return fmt.Errorf("template body is required")
	}
	switch t.ChannelAffinity {
	case AffinitySMS, AffinityEmail, AffinityBoth:
		return nil
	}
	return fmt.Errorf("invalid type: must be 'sms', 'email' or 'both'")
}
