package handler

import (
	"context"
	"time"

	"propertypulse/internal/models"
	"propertypulse/internal/repository"
)

// Stub repositories for wiring real services under handler tests. Handlers
// take concrete services, so tests drive behavior through the repo layer.

type stubTenantRepo struct {
	ListActiveFunc       func(ctx context.Context) ([]*models.Tenant, error)
	ListByStatusFunc     func(ctx context.Context, status models.PaymentStatus) ([]*models.Tenant, error)
	ListByPropertyFunc   func(ctx context.Context, propertyID int) ([]*models.Tenant, error)
	GetByIDsFunc         func(ctx context.Context, ids []int) ([]*models.Tenant, error)
	CountsByStatusFunc   func(ctx context.Context) (map[models.PaymentStatus]int, int, error)
	CountsByPropertyFunc func(ctx context.Context) ([]repository.PropertyTenantCount, error)
}

func (s *stubTenantRepo) ListActive(ctx context.Context) ([]*models.Tenant, error) {
	if s.ListActiveFunc != nil {
		return s.ListActiveFunc(ctx)
	}
	return []*models.Tenant{}, nil
}

func (s *stubTenantRepo) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]*models.Tenant, error) {
	if s.ListByStatusFunc != nil {
		return s.ListByStatusFunc(ctx, status)
	}
	return []*models.Tenant{}, nil
}

func (s *stubTenantRepo) ListByProperty(ctx context.Context, propertyID int) ([]*models.Tenant, error) {
	if s.ListByPropertyFunc != nil {
		return s.ListByPropertyFunc(ctx, propertyID)
	}
	return []*models.Tenant{}, nil
}

func (s *stubTenantRepo) GetByIDs(ctx context.Context, ids []int) ([]*models.Tenant, error) {
	if s.GetByIDsFunc != nil {
		return s.GetByIDsFunc(ctx, ids)
	}
	return []*models.Tenant{}, nil
}

func (s *stubTenantRepo) CountsByStatus(ctx context.Context) (map[models.PaymentStatus]int, int, error) {
	if s.CountsByStatusFunc != nil {
		return s.CountsByStatusFunc(ctx)
	}
	return map[models.PaymentStatus]int{}, 0, nil
}

func (s *stubTenantRepo) CountsByProperty(ctx context.Context) ([]repository.PropertyTenantCount, error) {
	if s.CountsByPropertyFunc != nil {
		return s.CountsByPropertyFunc(ctx)
	}
	return []repository.PropertyTenantCount{}, nil
}

type stubTemplateRepo struct {
	CreateFunc           func(ctx context.Context, template *models.MessageTemplate) error
	GetByIDFunc          func(ctx context.Context, id int) (*models.MessageTemplate, error)
	ListFunc             func(ctx context.Context, category string) ([]*models.MessageTemplate, error)
	DeleteFunc           func(ctx context.Context, id int) error
	ExistsByCategoryFunc func(ctx context.Context, category string) (bool, error)
}

func (s *stubTemplateRepo) Create(ctx context.Context, template *models.MessageTemplate) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, template)
	}
	template.ID = 1
	template.CreatedAt = time.Now()
	return nil
}

func (s *stubTemplateRepo) GetByID(ctx context.Context, id int) (*models.MessageTemplate, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (s *stubTemplateRepo) List(ctx context.Context, category string) ([]*models.MessageTemplate, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, category)
	}
	return []*models.MessageTemplate{}, nil
}

func (s *stubTemplateRepo) Delete(ctx context.Context, id int) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

func (s *stubTemplateRepo) ExistsByCategory(ctx context.Context, category string) (bool, error) {
	if s.ExistsByCategoryFunc != nil {
		return s.ExistsByCategoryFunc(ctx, category)
	}
	return false, nil
}

type stubLogRepo struct {
	CreateFunc           func(ctx context.Context, log *models.CommunicationLog) error
	GetByIDFunc          func(ctx context.Context, id int) (*models.CommunicationLog, error)
	ListFunc             func(ctx context.Context, filters repository.LogFilters) ([]*models.CommunicationLog, int, error)
	ListDueScheduledFunc func(ctx context.Context, before time.Time) ([]*models.CommunicationLog, error)
	FinalizeFunc         func(ctx context.Context, id int, sentCount, failedCount int, status models.LogStatus, report []models.DeliveryOutcome, sentAt time.Time) error
}

func (s *stubLogRepo) Create(ctx context.Context, log *models.CommunicationLog) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, log)
	}
	log.ID = 1
	log.CreatedAt = time.Now()
	return nil
}

func (s *stubLogRepo) GetByID(ctx context.Context, id int) (*models.CommunicationLog, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (s *stubLogRepo) List(ctx context.Context, filters repository.LogFilters) ([]*models.CommunicationLog, int, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, filters)
	}
	return []*models.CommunicationLog{}, 0, nil
}

func (s *stubLogRepo) ListDueScheduled(ctx context.Context, before time.Time) ([]*models.CommunicationLog, error) {
	if s.ListDueScheduledFunc != nil {
		return s.ListDueScheduledFunc(ctx, before)
	}
	return []*models.CommunicationLog{}, nil
}

func (s *stubLogRepo) Finalize(ctx context.Context, id int, sentCount, failedCount int, status models.LogStatus, report []models.DeliveryOutcome, sentAt time.Time) error {
	if s.FinalizeFunc != nil {
		return s.FinalizeFunc(ctx, id, sentCount, failedCount, status, report, sentAt)
	}
	return nil
}

// stubGateway always succeeds unless SendFunc is set
type stubGateway struct {
	SendFunc func(ctx context.Context, channel models.Channel, address, subject, body string) error
}

func (g *stubGateway) Send(ctx context.Context, channel models.Channel, address, subject, body string) error {
	if g.SendFunc != nil {
		return g.SendFunc(ctx, channel, address, subject, body)
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
