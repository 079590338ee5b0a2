package service

import (
	"context"
	"fmt"

	"propertypulse/internal/models"
	"propertypulse/internal/repository"
)

// SelectorType identifies how a bulk message targets its recipients
type SelectorType string

const (
	SelectorAll      SelectorType = "all"
	SelectorStatus   SelectorType = "status"
	SelectorProperty SelectorType = "property"
	SelectorCustom   SelectorType = "custom"
)

// Selector is the declarative description of which tenants a bulk message
// targets
type Selector struct {
	Type       SelectorType
	Status     models.PaymentStatus
	PropertyID int
	TenantIDs  []int
}

// ResolverService turns a selector into a concrete recipient list
type ResolverService struct {
	tenantRepo repository.TenantRepository
}

// NewResolverService creates a new resolver service
func NewResolverService(tenantRepo repository.TenantRepository) *ResolverService {
	return &ResolverService{tenantRepo: tenantRepo}
}

// Resolve produces the deduplicated recipient set for a selector, split into
// tenants reachable over the requested channel and tenants skipped for lack
// of an address. A tenant store failure aborts the whole request with a
// ResolutionError; no partial result is returned.
func (s *ResolverService) Resolve(ctx context.Context, selector Selector, channel models.Channel) (recipients, skipped []*models.Tenant, err error) {
	var tenants []*models.Tenant

	switch selector.Type {
	case SelectorAll:
		tenants, err = s.tenantRepo.ListActive(ctx)
	case SelectorStatus:
		tenants, err = s.tenantRepo.ListByStatus(ctx, selector.Status)
	case SelectorProperty:
		tenants, err = s.tenantRepo.ListByProperty(ctx, selector.PropertyID)
	case SelectorCustom:
		// Unknown ids are silently dropped: the caller picked them from a
		// live list that may have changed since.
		tenants, err = s.tenantRepo.GetByIDs(ctx, selector.TenantIDs)
	default:
		return nil, nil, &ValidationError{Message: fmt.Sprintf("unknown recipient type: %s", selector.Type)}
	}

	if err != nil {
		return nil, nil, &ResolutionError{Err: err}
	}

	// Deduplicate by tenant id. Current selectors cannot produce overlap,
	// but a tenant must never receive the same bulk message twice.
	seen := make(map[int]bool, len(tenants))
	recipients = make([]*models.Tenant, 0, len(tenants))
	skipped = []*models.Tenant{}

	for _, tenant := range tenants {
		if seen[tenant.ID] {
			continue
		}
		seen[tenant.ID] = true

		if _, ok := tenant.AddressFor(channel); ok {
			recipients = append(recipients, tenant)
		} else {
			skipped = append(skipped, tenant)
		}
	}

	return recipients, skipped, nil
}
