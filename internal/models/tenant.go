package models

import "time"

// PaymentStatus represents a tenant's rent payment status
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusDue     PaymentStatus = "due"
	PaymentStatusOverdue PaymentStatus = "overdue"
	PaymentStatusPending PaymentStatus = "pending"
)

// IsValidPaymentStatus checks if a status string is a known payment status
func IsValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentStatusPaid, PaymentStatusDue, PaymentStatusOverdue, PaymentStatusPending:
		return true
	}
	return false
}

// Tenant is a read-only projection of a tenant record, carrying only the
// fields the communications core needs for addressing and personalization.
// The tenant store owns the full record.
type Tenant struct {
	ID             int           `json:"id" db:"id"`
	FirstName      string        `json:"first_name" db:"first_name"`
	LastName       string        `json:"last_name" db:"last_name"`
	Phone          *string       `json:"phone,omitempty" db:"phone"`
	Email          *string       `json:"email,omitempty" db:"email"`
	PropertyID     int           `json:"property_id" db:"property_id"`
	UnitNumber     *string       `json:"unit_number,omitempty" db:"unit_number"`
	MonthlyRent    *float64      `json:"monthly_rent,omitempty" db:"monthly_rent"`
	NextPaymentDue *time.Time    `json:"next_payment_due,omitempty" db:"next_payment_due"`
	PaymentStatus  PaymentStatus `json:"rent_payment_status" db:"rent_payment_status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// DisplayName returns the tenant's full name
func (t *Tenant) DisplayName() string {
	if t.FirstName != "" && t.LastName != "" {
		return t.FirstName + " " + t.LastName
	}
	if t.FirstName != "" {
		return t.FirstName
	}
	if t.LastName != "" {
		return t.LastName
	}
	return "Tenant"
}

// AddressFor returns the tenant's address for the given channel and whether
// a usable one is on file.
func (t *Tenant) AddressFor(channel Channel) (string, bool) {
	switch channel {
	case ChannelSMS:
		if t.Phone != nil && *t.Phone != "" {
			return *t.Phone, true
		}
	case ChannelEmail:
		if t.Email != nil && *t.Email != "" {
			return *t.Email, true
		}
	}
	return "", false
}
