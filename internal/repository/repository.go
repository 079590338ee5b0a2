package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"propertypulse/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// TenantRepository defines read-only access to the tenant store. The
// communications core never writes tenant data.
type TenantRepository interface {
	ListActive(ctx context.Context) ([]*models.Tenant, error)
	ListByStatus(ctx context.Context, status models.PaymentStatus) ([]*models.Tenant, error)
	ListByProperty(ctx context.Context, propertyID int) ([]*models.Tenant, error)
	GetByIDs(ctx context.Context, ids []int) ([]*models.Tenant, error)
	CountsByStatus(ctx context.Context) (map[models.PaymentStatus]int, int, error)
	CountsByProperty(ctx context.Context) ([]PropertyTenantCount, error)
}

// PropertyTenantCount is the per-property audience size for recipient groups
type PropertyTenantCount struct {
	PropertyID int
	Name       string
	Count      int
}

// TemplateRepository defines message template data access operations
type TemplateRepository interface {
	Create(ctx context.Context, template *models.MessageTemplate) error
	GetByID(ctx context.Context, id int) (*models.MessageTemplate, error)
	List(ctx context.Context, category string) ([]*models.MessageTemplate, error)
	Delete(ctx context.Context, id int) error
	ExistsByCategory(ctx context.Context, category string) (bool, error)
}

// CommunicationLogRepository defines communication log data access
// operations. Logs are written once after dispatch; Finalize exists only for
// scheduled logs moving from "scheduled" to their terminal status.
type CommunicationLogRepository interface {
	Create(ctx context.Context, log *models.CommunicationLog) error
	GetByID(ctx context.Context, id int) (*models.CommunicationLog, error)
	List(ctx context.Context, filters LogFilters) ([]*models.CommunicationLog, int, error)
	ListDueScheduled(ctx context.Context, before time.Time) ([]*models.CommunicationLog, error)
	Finalize(ctx context.Context, id int, sentCount, failedCount int, status models.LogStatus, report []models.DeliveryOutcome, sentAt time.Time) error
}

// LogFilters defines filters for listing communication logs
type LogFilters struct {
	Page     int
	PageSize int
	Status   *models.LogStatus
}

// DB is a wrapper around *sql.DB to allow passing in transaction
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
