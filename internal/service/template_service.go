package service

import (
	"context"
	"errors"
	"fmt"

	"propertypulse/internal/models"
	"propertypulse/internal/repository"
)

// TemplateService handles message template management
type TemplateService struct {
	templateRepo repository.TemplateRepository
	renderer     *RendererService
}

// NewTemplateService creates a new template service
func NewTemplateService(templateRepo repository.TemplateRepository, renderer *RendererService) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		renderer:     renderer,
	}
}

// CreateTemplateRequest represents a request to create a message template
type CreateTemplateRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Subject  *string `json:"subject,omitempty"`
	Body     string  `json:"body"`
}

// TemplateWithVariables is a template plus the placeholders found in its body
type TemplateWithVariables struct {
	*models.MessageTemplate
	Variables []string `json:"variables"`
}

// Create validates and stores a new template. An omitted type defaults to
// "both".
func (s *TemplateService) Create(ctx context.Context, req *CreateTemplateRequest) (*TemplateWithVariables, error) {
	affinity := models.ChannelAffinity(req.Type)
	if req.Type == "" {
		affinity = models.AffinityBoth
	}

	template := &models.MessageTemplate{
		Name:            req.Name,
		ChannelAffinity: affinity,
		Category:        req.Category,
		Subject:         req.Subject,
		Body:            req.Body,
	}

	if err := template.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return s.withVariables(template), nil
}

// GetByID retrieves a template by ID
func (s *TemplateService) GetByID(ctx context.Context, id int) (*models.MessageTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "template", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

// List retrieves templates, optionally filtered by category
func (s *TemplateService) List(ctx context.Context, category string) ([]*TemplateWithVariables, error) {
	templates, err := s.templateRepo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	result := make([]*TemplateWithVariables, 0, len(templates))
	for _, template := range templates {
		result = append(result, s.withVariables(template))
	}
	return result, nil
}

// Delete removes a template
func (s *TemplateService) Delete(ctx context.Context, id int) error {
	err := s.templateRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "template", ID: id}
	}
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// defaultTemplates is the ready-made catalog installed by SeedDefaults
var defaultTemplates = []models.MessageTemplate{
	{
		Name:            "Rent Reminder (3 Days Before)",
		ChannelAffinity: models.AffinityBoth,
		Category:        "rent_reminder",
		Subject:         strPtr("Rent Payment Reminder"),
		Body:            "Dear {tenant_name},\n\nThis is a friendly reminder that your rent payment of {amount} is due on {due_date}.\n\nPlease ensure timely payment to avoid late fees.\n\nThank you!\nProperty Management",
	},
	{
		Name:            "Overdue Payment Notice",
		ChannelAffinity: models.AffinityBoth,
		Category:        "overdue_notice",
		Subject:         strPtr("Overdue Payment Notice"),
		Body:            "Dear {tenant_name},\n\nYour rent payment of {amount} was due on {due_date} and is now overdue.\n\nPlease make payment immediately to avoid further action.\n\nProperty Management",
	},
	{
		Name:            "Payment Received Confirmation",
		ChannelAffinity: models.AffinityBoth,
		Category:        "payment_confirmation",
		Subject:         strPtr("Payment Received"),
		Body:            "Dear {tenant_name},\n\nWe confirm receipt of your payment of {amount}.\n\nThank you for your prompt payment!\n\nProperty Management",
	},
	{
		Name:            "Lease Expiry Notice (30 Days)",
		ChannelAffinity: models.AffinityEmail,
		Category:        "lease_expiry",
		Subject:         strPtr("Lease Expiry Notice"),
		Body:            "Dear {tenant_name},\n\nYour lease for Unit {unit_number} expires on {due_date}.\n\nPlease contact us to discuss renewal options.\n\nBest regards,\nProperty Management",
	},
	{
		Name:            "Maintenance Update",
		ChannelAffinity: models.AffinityBoth,
		Category:        "maintenance",
		Subject:         strPtr("Maintenance Update for Unit {unit_number}"),
		Body:            "Dear {tenant_name},\n\nYour maintenance request has been updated.\n\nWe will keep you informed of progress.\n\nThank you for your patience.\nProperty Management",
	},
}

// SeedDefaults installs the default template catalog. A default is only
// created when no template with its category exists yet, so calling this
// twice never duplicates entries.
func (s *TemplateService) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, template := range defaultTemplates {
		exists, err := s.templateRepo.ExistsByCategory(ctx, template.Category)
		if err != nil {
			return created, fmt.Errorf("failed to check category %q: %w", template.Category, err)
		}
		if exists {
			continue
		}

		t := template
		if err := s.templateRepo.Create(ctx, &t); err != nil {
			return created, fmt.Errorf("failed to seed template %q: %w", template.Name, err)
		}
		created++
	}
	return created, nil
}

func (s *TemplateService) withVariables(template *models.MessageTemplate) *TemplateWithVariables {
	return &TemplateWithVariables{
		MessageTemplate: template,
		Variables:       s.renderer.Placeholders(template.Body),
	}
}

func strPtr(s string) *string {
	return &s
}
