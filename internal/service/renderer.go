package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"propertypulse/internal/models"
)

// RendererService substitutes {placeholder} tokens in template bodies with
// per-tenant values. Rendering is pure: the same (body, tenant) pair always
// yields the same output, which makes retries safe.
type RendererService struct{}

// NewRendererService creates a new renderer service
func NewRendererService() *RendererService {
	return &RendererService{}
}

// placeholderPattern matches {token} placeholders in a template body
var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z_]+\}`)

// RecognizedPlaceholders is the complete, fixed vocabulary the renderer
// substitutes. Any other {token} is ordinary text and passes through
// verbatim, so template authors can write literal braces freely.
var RecognizedPlaceholders = []string{
	"{tenant_name}",
	"{amount}",
	"{due_date}",
	"{unit_number}",
}

// Render substitutes the recognized placeholders with the tenant's values.
// A recognized placeholder with no value on file becomes an empty string;
// it is never left as a literal token and never causes an error.
func (s *RendererService) Render(body string, tenant *models.Tenant) string {
	if tenant == nil {
		return body
	}

	replacer := strings.NewReplacer(
		"{tenant_name}", tenant.DisplayName(),
		"{amount}", formatAmount(tenant.MonthlyRent),
		"{due_date}", formatDate(tenant.NextPaymentDue),
		"{unit_number}", stringValue(tenant.UnitNumber),
	)

	return replacer.Replace(body)
}

// Placeholders extracts all {token} placeholders from a template body,
// recognized or not
func (s *RendererService) Placeholders(body string) []string {
	return placeholderPattern.FindAllString(body, -1)
}

// formatAmount renders a currency amount as a bare number, without trailing
// zeros or a currency symbol
func formatAmount(amount *float64) string {
	if amount == nil {
		return ""
	}
	return strconv.FormatFloat(*amount, 'f', -1, 64)
}

// formatDate renders a date as YYYY-MM-DD
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// stringValue dereferences an optional string, empty when absent
func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
