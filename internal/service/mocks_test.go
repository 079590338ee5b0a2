package service

import (
	"context"
	"sync"
	"time"

	"propertypulse/internal/models"
	"propertypulse/internal/repository"
)

// MockTenantRepository mocks repository.TenantRepository
type MockTenantRepository struct {
	ListActiveFunc       func(ctx context.Context) ([]*models.Tenant, error)
	ListByStatusFunc     func(ctx context.Context, status models.PaymentStatus) ([]*models.Tenant, error)
	ListByPropertyFunc   func(ctx context.Context, propertyID int) ([]*models.Tenant, error)
	GetByIDsFunc         func(ctx context.Context, ids []int) ([]*models.Tenant, error)
	CountsByStatusFunc   func(ctx context.Context) (map[models.PaymentStatus]int, int, error)
	CountsByPropertyFunc func(ctx context.Context) ([]repository.PropertyTenantCount, error)

	Calls map[string]int
}

func NewMockTenantRepository() *MockTenantRepository {
	return &MockTenantRepository{Calls: make(map[string]int)}
}

func (m *MockTenantRepository) ListActive(ctx context.Context) ([]*models.Tenant, error) {
	m.Calls["ListActive"]++
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return []*models.Tenant{}, nil
}

func (m *MockTenantRepository) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]*models.Tenant, error) {
	m.Calls["ListByStatus"]++
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}
	return []*models.Tenant{}, nil
}

func (m *MockTenantRepository) ListByProperty(ctx context.Context, propertyID int) ([]*models.Tenant, error) {
	m.Calls["ListByProperty"]++
	if m.ListByPropertyFunc != nil {
		return m.ListByPropertyFunc(ctx, propertyID)
	}
	return []*models.Tenant{}, nil
}

func (m *MockTenantRepository) GetByIDs(ctx context.Context, ids []int) ([]*models.Tenant, error) {
	m.Calls["GetByIDs"]++
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return []*models.Tenant{}, nil
}

func (m *MockTenantRepository) CountsByStatus(ctx context.Context) (map[models.PaymentStatus]int, int, error) {
	m.Calls["CountsByStatus"]++
	if m.CountsByStatusFunc != nil {
		return m.CountsByStatusFunc(ctx)
	}
	return map[models.PaymentStatus]int{}, 0, nil
}

func (m *MockTenantRepository) CountsByProperty(ctx context.Context) ([]repository.PropertyTenantCount, error) {
	m.Calls["CountsByProperty"]++
	if m.CountsByPropertyFunc != nil {
		return m.CountsByPropertyFunc(ctx)
	}
	return []repository.PropertyTenantCount{}, nil
}

// MockTemplateRepository mocks repository.TemplateRepository
type MockTemplateRepository struct {
	CreateFunc           func(ctx context.Context, template *models.MessageTemplate) error
	GetByIDFunc          func(ctx context.Context, id int) (*models.MessageTemplate, error)
	ListFunc             func(ctx context.Context, category string) ([]*models.MessageTemplate, error)
	DeleteFunc           func(ctx context.Context, id int) error
	ExistsByCategoryFunc func(ctx context.Context, category string) (bool, error)

	Calls map[string]int
}

func NewMockTemplateRepository() *MockTemplateRepository {
	return &MockTemplateRepository{Calls: make(map[string]int)}
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *models.MessageTemplate) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, template)
	}
	template.ID = 1
	template.CreatedAt = time.Now()
	return nil
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id int) (*models.MessageTemplate, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *MockTemplateRepository) List(ctx context.Context, category string) ([]*models.MessageTemplate, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, category)
	}
	return []*models.MessageTemplate{}, nil
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTemplateRepository) ExistsByCategory(ctx context.Context, category string) (bool, error) {
	m.Calls["ExistsByCategory"]++
	if m.ExistsByCategoryFunc != nil {
		return m.ExistsByCategoryFunc(ctx, category)
	}
	return false, nil
}

// MockLogRepository mocks repository.CommunicationLogRepository
type MockLogRepository struct {
	CreateFunc           func(ctx context.Context, log *models.CommunicationLog) error
	GetByIDFunc          func(ctx context.Context, id int) (*models.CommunicationLog, error)
	ListFunc             func(ctx context.Context, filters repository.LogFilters) ([]*models.CommunicationLog, int, error)
	ListDueScheduledFunc func(ctx context.Context, before time.Time) ([]*models.CommunicationLog, error)
	FinalizeFunc         func(ctx context.Context, id int, sentCount, failedCount int, status models.LogStatus, report []models.DeliveryOutcome, sentAt time.Time) error

	Calls map[string]int
}

func NewMockLogRepository() *MockLogRepository {
	return &MockLogRepository{Calls: make(map[string]int)}
}

func (m *MockLogRepository) Create(ctx context.Context, log *models.CommunicationLog) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	log.ID = 1
	log.CreatedAt = time.Now()
	return nil
}

func (m *MockLogRepository) GetByID(ctx context.Context, id int) (*models.CommunicationLog, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *MockLogRepository) List(ctx context.Context, filters repository.LogFilters) ([]*models.CommunicationLog, int, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return []*models.CommunicationLog{}, 0, nil
}

func (m *MockLogRepository) ListDueScheduled(ctx context.Context, before time.Time) ([]*models.CommunicationLog, error) {
	m.Calls["ListDueScheduled"]++
	if m.ListDueScheduledFunc != nil {
		return m.ListDueScheduledFunc(ctx, before)
	}
	return []*models.CommunicationLog{}, nil
}

func (m *MockLogRepository) Finalize(ctx context.Context, id int, sentCount, failedCount int, status models.LogStatus, report []models.DeliveryOutcome, sentAt time.Time) error {
	m.Calls["Finalize"]++
	if m.FinalizeFunc != nil {
		return m.FinalizeFunc(ctx, id, sentCount, failedCount, status, report, sentAt)
	}
	return nil
}

// MockSendGateway is a deterministic gateway for dispatch tests. With no
// SendFunc every send succeeds.
type MockSendGateway struct {
	SendFunc func(ctx context.Context, channel models.Channel, address, subject, body string) error

	mu    sync.Mutex
	sends []string
}

func (g *MockSendGateway) Send(ctx context.Context, channel models.Channel, address, subject, body string) error {
	g.mu.Lock()
	g.sends = append(g.sends, address)
	g.mu.Unlock()

	if g.SendFunc != nil {
		return g.SendFunc(ctx, channel, address, subject, body)
	}
	return nil
}

// Sends returns the addresses handed to the gateway, in completion order
func (g *MockSendGateway) Sends() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string{}, g.sends...)
}

// Test fixtures

func testTenant(id int, firstName string, phone *string) *models.Tenant {
	return &models.Tenant{
		ID:            id,
		FirstName:     firstName,
		Phone:         phone,
		PaymentStatus: models.PaymentStatusDue,
	}
}

func strP(s string) *string {
	return &s
}

func intP(i int) *int {
	return &i
}

func floatP(f float64) *float64 {
	return &f
}

func timeP(t time.Time) *time.Time {
	return &t
}
