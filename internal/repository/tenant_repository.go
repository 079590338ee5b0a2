package repository

import (
	"context"
	"database/sql"
	"fmt"

	"propertypulse/internal/models"

	"github.com/lib/pq"
)

type tenantRepository struct {
	db *sql.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *sql.DB) TenantRepository {
	return &tenantRepository{db: db}
}

// tenantColumns is the projection shared by every tenant query. Unit number
// comes from the units table; tenants without a unit render it empty.
const tenantColumns = `
	t.id, t.first_name, t.last_name, t.phone, t.email, t.property_id,
	u.unit_number, t.monthly_rent, t.next_payment_due, t.rent_payment_status,
	t.created_at
`

const tenantFrom = `
	FROM tenants t
	LEFT JOIN units u ON t.unit_id = u.id
`

func scanTenants(rows *sql.Rows) ([]*models.Tenant, error) {
	tenants := []*models.Tenant{}
	for rows.Next() {
		tenant := &models.Tenant{}
		err := rows.Scan(
			&tenant.ID,
			&tenant.FirstName,
			&tenant.LastName,
			&tenant.Phone,
			&tenant.Email,
			&tenant.PropertyID,
			&tenant.UnitNumber,
			&tenant.MonthlyRent,
			&tenant.NextPaymentDue,
			&tenant.PaymentStatus,
			&tenant.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tenants: %w", err)
	}
	return tenants, nil
}

// ListActive retrieves all active tenants
func (r *tenantRepository) ListActive(ctx context.Context) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + tenantFrom + `WHERE t.is_active = TRUE ORDER BY t.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	return scanTenants(rows)
}

// ListByStatus retrieves active tenants with the given payment status
func (r *tenantRepository) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + tenantFrom + `
		WHERE t.is_active = TRUE AND t.rent_payment_status = $1
		ORDER BY t.id`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants by status: %w", err)
	}
	defer rows.Close()

	return scanTenants(rows)
}

// ListByProperty retrieves active tenants of the given property
func (r *tenantRepository) ListByProperty(ctx context.Context, propertyID int) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + tenantFrom + `
		WHERE t.is_active = TRUE AND t.property_id = $1
		ORDER BY t.id`

	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants by property: %w", err)
	}
	defer rows.Close()

	return scanTenants(rows)
}

// GetByIDs retrieves tenants by id. Unknown ids are silently absent from the
// result.
func (r *tenantRepository) GetByIDs(ctx context.Context, ids []int) ([]*models.Tenant, error) {
	if len(ids) == 0 {
		return []*models.Tenant{}, nil
	}

	query := `SELECT ` + tenantColumns + tenantFrom + `
		WHERE t.is_active = TRUE AND t.id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get tenants: %w", err)
	}
	defer rows.Close()

	return scanTenants(rows)
}

// CountsByStatus returns active tenant counts grouped by payment status,
// plus the overall total
func (r *tenantRepository) CountsByStatus(ctx context.Context) (map[models.PaymentStatus]int, int, error) {
	query := `
		SELECT rent_payment_status, COUNT(*)
		FROM tenants
		WHERE is_active = TRUE
		GROUP BY rent_payment_status
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.PaymentStatus]int)
	total := 0
	for rows.Next() {
		var status models.PaymentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, 0, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
		total += count
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read status counts: %w", err)
	}

	return counts, total, nil
}

// CountsByProperty returns active tenant counts per property
func (r *tenantRepository) CountsByProperty(ctx context.Context) ([]PropertyTenantCount, error) {
	query := `
		SELECT p.id, p.name, COUNT(t.id)
		FROM properties p
		JOIN tenants t ON t.property_id = p.id AND t.is_active = TRUE
		GROUP BY p.id, p.name
		ORDER BY p.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count tenants by property: %w", err)
	}
	defer rows.Close()

	counts := []PropertyTenantCount{}
	for rows.Next() {
		var c PropertyTenantCount
		if err := rows.Scan(&c.PropertyID, &c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan property count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read property counts: %w", err)
	}

	return counts, nil
}
