package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"propertypulse/internal/models"
	"propertypulse/internal/repository"
)

// ScheduledSendPublisher enqueues a scheduled communication log for the
// worker to dispatch
type ScheduledSendPublisher interface {
	PublishScheduledSend(logID int) error
}

// CommunicationService orchestrates the bulk-send pipeline:
// resolve recipients, render per-tenant messages, dispatch, record the log.
type CommunicationService struct {
	resolver   *ResolverService
	templates  *TemplateService
	renderer   *RendererService
	dispatcher *DispatchEngine
	logRepo    repository.CommunicationLogRepository
	tenantRepo repository.TenantRepository
	publisher  ScheduledSendPublisher
}

// NewCommunicationService creates a new communication service. publisher may
// be nil in processes that never queue scheduled sends (the worker).
func NewCommunicationService(
	resolver *ResolverService,
	templates *TemplateService,
	renderer *RendererService,
	dispatcher *DispatchEngine,
	logRepo repository.CommunicationLogRepository,
	tenantRepo repository.TenantRepository,
	publisher ScheduledSendPublisher,
) *CommunicationService {
	return &CommunicationService{
		resolver:   resolver,
		templates:  templates,
		renderer:   renderer,
		dispatcher: dispatcher,
		logRepo:    logRepo,
		tenantRepo: tenantRepo,
		publisher:  publisher,
	}
}

// BulkMessageRequest represents a request to send a bulk message
type BulkMessageRequest struct {
	RecipientType    SelectorType   `json:"recipient_type"`
	Method           models.Channel `json:"method"`
	PropertyID       *int           `json:"property_id,omitempty"`
	StatusFilter     *string        `json:"status_filter,omitempty"`
	TemplateID       *int           `json:"template_id,omitempty"`
	CustomSubject    *string        `json:"custom_subject,omitempty"`
	CustomMessage    string         `json:"custom_message"`
	CustomRecipients []int          `json:"custom_recipients,omitempty"`
	ScheduleAt       *time.Time     `json:"schedule_at,omitempty"`
}

// Validate checks the request before any resolution or dispatch begins
func (r *BulkMessageRequest) Validate() error {
	if !models.IsValidChannel(string(r.Method)) {
		return fmt.Errorf("invalid method: must be 'sms' or 'email'")
	}
	if r.CustomMessage == "" {
		return fmt.Errorf("custom_message is required")
	}

	switch r.RecipientType {
	case SelectorAll:
	case SelectorStatus:
		if r.StatusFilter == nil || *r.StatusFilter == "" {
			return fmt.Errorf("status_filter is required for recipient_type 'status'")
		}
		if !models.IsValidPaymentStatus(*r.StatusFilter) {
			return fmt.Errorf("invalid status_filter: must be one of paid, due, overdue, pending")
		}
	case SelectorProperty:
		if r.PropertyID == nil || *r.PropertyID <= 0 {
			return fmt.Errorf("property_id is required for recipient_type 'property'")
		}
	case SelectorCustom:
		if len(r.CustomRecipients) == 0 {
			return fmt.Errorf("custom_recipients is required for recipient_type 'custom'")
		}
	default:
		return fmt.Errorf("invalid recipient_type: must be one of all, status, property, custom")
	}

	return nil
}

// selector builds the resolver selector from the request
func (r *BulkMessageRequest) selector() Selector {
	sel := Selector{Type: r.RecipientType}
	if r.StatusFilter != nil {
		sel.Status = models.PaymentStatus(*r.StatusFilter)
	}
	if r.PropertyID != nil {
		sel.PropertyID = *r.PropertyID
	}
	sel.TenantIDs = r.CustomRecipients
	return sel
}

// BulkSendResult summarizes one bulk-send invocation
type BulkSendResult struct {
	Status          string     `json:"status"`
	LogID           int        `json:"log_id"`
	TotalRecipients int        `json:"total_recipients"`
	Sent            int        `json:"sent"`
	Failed          int        `json:"failed"`
	Skipped         int        `json:"skipped"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
}

// SendBulk runs the full pipeline for one bulk message request and returns
// the finished summary. Per-recipient delivery problems are absorbed into
// the summary counts; only validation and resolution failures surface as
// errors, and neither creates a log entry.
func (s *CommunicationService) SendBulk(ctx context.Context, req *BulkMessageRequest) (*BulkSendResult, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	subject := req.CustomSubject
	body := req.CustomMessage

	// A referenced template overrides the literal subject and body. A
	// template deleted since the caller loaded the list falls back to the
	// custom message rather than failing the batch.
	if req.TemplateID != nil {
		template, err := s.templates.GetByID(ctx, *req.TemplateID)
		if err == nil {
			subject = template.Subject
			body = template.Body
		} else {
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	recipients, skipped, err := s.resolver.Resolve(ctx, req.selector(), req.Method)
	if err != nil {
		return nil, err
	}

	// The log records who was targeted, before any skip or fail filtering.
	targeted := make([]int, 0, len(recipients)+len(skipped))
	for _, t := range recipients {
		targeted = append(targeted, t.ID)
	}
	for _, t := range skipped {
		targeted = append(targeted, t.ID)
	}
	if len(targeted) == 0 {
		return nil, &ValidationError{Message: "no recipients found"}
	}

	if req.ScheduleAt != nil && req.ScheduleAt.After(time.Now()) {
		return s.scheduleBulk(ctx, req, subject, body, targeted)
	}

	outcomes := s.dispatchAll(ctx, req.Method, subject, body, recipients, skipped)
	sent, failed, skippedCount := models.CountOutcomes(outcomes)
	now := time.Now().UTC()

	entry := &models.CommunicationLog{
		Method:         req.Method,
		Subject:        subject,
		MessageContent: body,
		RecipientIDs:   targeted,
		SentCount:      sent,
		FailedCount:    failed,
		Status:         models.DeriveLogStatus(outcomes),
		DeliveryReport: outcomes,
		SentAt:         &now,
	}

	// The log must be written even when the caller disconnected mid-flight.
	if err := s.logRepo.Create(context.WithoutCancel(ctx), entry); err != nil {
		return nil, fmt.Errorf("failed to record communication log: %w", err)
	}

	return &BulkSendResult{
		Status:          "completed",
		LogID:           entry.ID,
		TotalRecipients: len(targeted),
		Sent:            sent,
		Failed:          failed,
		Skipped:         skippedCount,
	}, nil
}

// scheduleBulk records a future send without dispatching anything
func (s *CommunicationService) scheduleBulk(ctx context.Context, req *BulkMessageRequest, subject *string, body string, targeted []int) (*BulkSendResult, error) {
	entry := &models.CommunicationLog{
		Method:         req.Method,
		Subject:        subject,
		MessageContent: body,
		RecipientIDs:   targeted,
		Status:         models.LogStatusScheduled,
		ScheduledAt:    req.ScheduleAt,
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record scheduled log: %w", err)
	}

	return &BulkSendResult{
		Status:          "scheduled",
		LogID:           entry.ID,
		TotalRecipients: len(targeted),
		ScheduledAt:     req.ScheduleAt,
	}, nil
}

// dispatchAll renders and dispatches to reachable recipients, then merges
// skip outcomes for the rest
func (s *CommunicationService) dispatchAll(ctx context.Context, channel models.Channel, subject *string, body string, recipients, skipped []*models.Tenant) []models.DeliveryOutcome {
	messages := make([]RenderedMessage, len(recipients))
	for i, tenant := range recipients {
		renderedSubject := ""
		if subject != nil {
			renderedSubject = s.renderer.Render(*subject, tenant)
		}
		messages[i] = RenderedMessage{
			Tenant:  tenant,
			Subject: renderedSubject,
			Body:    s.renderer.Render(body, tenant),
		}
	}

	outcomes := s.dispatcher.Dispatch(ctx, channel, messages)
	return append(outcomes, SkipOutcomes(channel, skipped)...)
}

// QueueDueScheduled publishes every due scheduled log to the worker queue
// and returns the number queued. A publish failure is logged and skipped;
// the log stays scheduled and is picked up on the next run.
func (s *CommunicationService) QueueDueScheduled(ctx context.Context) (int, error) {
	if s.publisher == nil {
		return 0, fmt.Errorf("scheduled send queue not configured")
	}

	due, err := s.logRepo.ListDueScheduled(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list due scheduled logs: %w", err)
	}

	queued := 0
	for _, entry := range due {
		if err := s.publisher.PublishScheduledSend(entry.ID); err != nil {
			log.Printf("Warning: failed to queue scheduled log %d: %v", entry.ID, err)
			continue
		}
		queued++
	}

	return queued, nil
}

// ProcessScheduledLog dispatches one scheduled log from the worker queue.
// A log that is no longer in scheduled state is treated as already
// processed, which makes queue redelivery harmless.
func (s *CommunicationService) ProcessScheduledLog(ctx context.Context, logID int) error {
	entry, err := s.logRepo.GetByID(ctx, logID)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "communication log", ID: logID}
	}
	if err != nil {
		return fmt.Errorf("failed to load scheduled log: %w", err)
	}

	if entry.Status != models.LogStatusScheduled {
		log.Printf("Log %d already processed (status %s), skipping", logID, entry.Status)
		return nil
	}

	recipients, skipped, err := s.resolver.Resolve(ctx, Selector{
		Type:      SelectorCustom,
		TenantIDs: entry.RecipientIDs,
	}, entry.Method)
	if err != nil {
		return err
	}

	outcomes := s.dispatchAll(ctx, entry.Method, entry.Subject, entry.MessageContent, recipients, skipped)
	sent, failed, _ := models.CountOutcomes(outcomes)
	status := models.DeriveLogStatus(outcomes)

	err = s.logRepo.Finalize(context.WithoutCancel(ctx), entry.ID, sent, failed, status, outcomes, time.Now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		// Another worker finalized it first.
		log.Printf("Log %d finalized concurrently, dropping duplicate job", logID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to finalize scheduled log: %w", err)
	}

	return nil
}

// RecipientGroup is one audience preview entry
type RecipientGroup struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}

// RecipientGroups returns audience sizes for every selector the UI offers:
// all tenants, each payment status, and each property.
func (s *CommunicationService) RecipientGroups(ctx context.Context) (map[string]RecipientGroup, error) {
	statusCounts, total, err := s.tenantRepo.CountsByStatus(ctx)
	if err != nil {
		return nil, &ResolutionError{Err: err}
	}

	groups := map[string]RecipientGroup{
		"all":     {Count: total, Label: "All Tenants"},
		"paid":    {Count: statusCounts[models.PaymentStatusPaid], Label: "Paid Tenants"},
		"due":     {Count: statusCounts[models.PaymentStatusDue], Label: "Due Tenants"},
		"overdue": {Count: statusCounts[models.PaymentStatusOverdue], Label: "Overdue Tenants"},
		"pending": {Count: statusCounts[models.PaymentStatusPending], Label: "Pending Tenants"},
	}

	propertyCounts, err := s.tenantRepo.CountsByProperty(ctx)
	if err != nil {
		return nil, &ResolutionError{Err: err}
	}
	for _, c := range propertyCounts {
		groups[fmt.Sprintf("property_%d", c.PropertyID)] = RecipientGroup{
			Count: c.Count,
			Label: c.Name + " Tenants",
		}
	}

	return groups, nil
}

// ListLogs lists communication logs with pagination and an optional status
// filter
func (s *CommunicationService) ListLogs(ctx context.Context, statusFilter string, page, pageSize int) ([]*models.CommunicationLog, *PaginationInfo, error) {
	filters := repository.LogFilters{Page: page, PageSize: pageSize}
	if statusFilter != "" {
		if !models.IsValidLogStatus(statusFilter) {
			return nil, nil, &ValidationError{Message: "invalid status_filter: must be one of scheduled, sent, partial, failed"}
		}
		status := models.LogStatus(statusFilter)
		filters.Status = &status
	}

	logs, total, err := s.logRepo.List(ctx, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list communication logs: %w", err)
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	pagination := &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}

	return logs, pagination, nil
}

// GetLog retrieves a communication log by ID
func (s *CommunicationService) GetLog(ctx context.Context, id int) (*models.CommunicationLog, error) {
	entry, err := s.logRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "communication log", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get communication log: %w", err)
	}
	return entry, nil
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
