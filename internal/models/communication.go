package models

import "time"

// OutcomeStatus represents the per-recipient result of a dispatch attempt
type OutcomeStatus string

const (
	OutcomeSent    OutcomeStatus = "sent"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// DeliveryOutcome is the immutable per-recipient record of a bulk send.
// Every recipient in a request terminates in exactly one outcome.
type DeliveryOutcome struct {
	TenantID int           `json:"tenant_id"`
	Status   OutcomeStatus `json:"status"`
	Error    *string       `json:"error,omitempty"`
}

// LogStatus represents the aggregate status of a communication log
type LogStatus string

const (
	LogStatusScheduled LogStatus = "scheduled"
	LogStatusSent      LogStatus = "sent"
	LogStatusPartial   LogStatus = "partial"
	LogStatusFailed    LogStatus = "failed"
)

// IsValidLogStatus checks if a status string is a known log status
func IsValidLogStatus(s string) bool {
	switch LogStatus(s) {
	case LogStatusScheduled, LogStatusSent, LogStatusPartial, LogStatusFailed:
		return true
	}
	return false
}

// CommunicationLog is the audit record of one bulk-send invocation.
// RecipientIDs holds the resolved set before skip/fail filtering so audits
// can reconstruct who was targeted versus who actually received the message.
type CommunicationLog struct {
	ID             int               `json:"id" db:"id"`
	Method         Channel           `json:"method" db:"method"`
	Subject        *string           `json:"subject,omitempty" db:"subject"`
	MessageContent string            `json:"message_content" db:"message_content"`
	RecipientIDs   []int             `json:"recipient_ids" db:"recipient_ids"`
	SentCount      int               `json:"sent_count" db:"sent_count"`
	FailedCount    int               `json:"failed_count" db:"failed_count"`
	Status         LogStatus         `json:"status" db:"status"`
	DeliveryReport []DeliveryOutcome `json:"delivery_report,omitempty" db:"delivery_report"`
	ScheduledAt    *time.Time        `json:"scheduled_at,omitempty" db:"scheduled_at"`
	SentAt         *time.Time        `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
}

// SkippedCount returns the number of skipped recipients, derived from the
// targeted set minus the attempted outcomes.
func (l *CommunicationLog) SkippedCount() int {
	return len(l.RecipientIDs) - l.SentCount - l.FailedCount
}

// CountOutcomes tallies a list of delivery outcomes.
func CountOutcomes(outcomes []DeliveryOutcome) (sent, failed, skipped int) {
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeSent:
			sent++
		case OutcomeFailed:
			failed++
		case OutcomeSkipped:
			skipped++
		}
	}
	return sent, failed, skipped
}

// DeriveLogStatus computes the aggregate log status from per-recipient
// outcomes: "sent" when every outcome is sent, "failed" when at least one
// send was attempted and none succeeded, "partial" for any other mix
// (including skips alongside sends, or an all-skipped batch). Accumulation
// is order-independent.
func DeriveLogStatus(outcomes []DeliveryOutcome) LogStatus {
	sent, failed, _ := CountOutcomes(outcomes)

	if len(outcomes) > 0 && sent == len(outcomes) {
		return LogStatusSent
	}
	if failed > 0 && sent == 0 {
		return LogStatusFailed
	}
	return LogStatusPartial
}
