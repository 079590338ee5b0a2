package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"propertypulse/internal/models"
)

type communicationLogRepository struct {
	db *sql.DB
}

// NewCommunicationLogRepository creates a new communication log repository
func NewCommunicationLogRepository(db *sql.DB) CommunicationLogRepository {
	return &communicationLogRepository{db: db}
}

// Create inserts a communication log. Recipient ids and the delivery report
// are stored as JSON text columns.
func (r *communicationLogRepository) Create(ctx context.Context, log *models.CommunicationLog) error {
	recipientIDs, err := json.Marshal(log.RecipientIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal recipient ids: %w", err)
	}

	var report *string
	if log.DeliveryReport != nil {
		data, err := json.Marshal(log.DeliveryReport)
		if err != nil {
			return fmt.Errorf("failed to marshal delivery report: %w", err)
		}
		s := string(data)
		report = &s
	}

	query := `
		INSERT INTO communication_logs
			(method, subject, message_content, recipient_ids, sent_count,
			 failed_count, status, delivery_report, scheduled_at, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		log.Method,
		log.Subject,
		log.MessageContent,
		string(recipientIDs),
		log.SentCount,
		log.FailedCount,
		log.Status,
		report,
		log.ScheduledAt,
		log.SentAt,
	).Scan(&log.ID, &log.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create communication log: %w", err)
	}

	return nil
}

const logColumns = `
	id, method, subject, message_content, recipient_ids, sent_count,
	failed_count, status, delivery_report, scheduled_at, sent_at, created_at
`

func scanLog(row interface {
	Scan(dest ...interface{}) error
}) (*models.CommunicationLog, error) {
	log := &models.CommunicationLog{}
	var recipientIDs string
	var report *string

	err := row.Scan(
		&log.ID,
		&log.Method,
		&log.Subject,
		&log.MessageContent,
		&recipientIDs,
		&log.SentCount,
		&log.FailedCount,
		&log.Status,
		&report,
		&log.ScheduledAt,
		&log.SentAt,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(recipientIDs), &log.RecipientIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipient ids: %w", err)
	}
	if report != nil {
		if err := json.Unmarshal([]byte(*report), &log.DeliveryReport); err != nil {
			return nil, fmt.Errorf("failed to unmarshal delivery report: %w", err)
		}
	}

	return log, nil
}

// GetByID retrieves a communication log by ID
func (r *communicationLogRepository) GetByID(ctx context.Context, id int) (*models.CommunicationLog, error) {
	query := `SELECT ` + logColumns + ` FROM communication_logs WHERE id = $1`

	log, err := scanLog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get communication log: %w", err)
	}

	return log, nil
}

// List retrieves communication logs with pagination and an optional status
// filter, newest first. It also returns the total count for the filter.
func (r *communicationLogRepository) List(ctx context.Context, filters LogFilters) ([]*models.CommunicationLog, int, error) {
	where := ""
	args := []interface{}{}
	if filters.Status != nil {
		where = ` WHERE status = $1`
		args = append(args, *filters.Status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM communication_logs` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count communication logs: %w", err)
	}

	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(
		`SELECT %s FROM communication_logs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		logColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list communication logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.CommunicationLog{}
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan communication log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read communication logs: %w", err)
	}

	return logs, total, nil
}

// ListDueScheduled retrieves scheduled logs whose send time has passed
func (r *communicationLogRepository) ListDueScheduled(ctx context.Context, before time.Time) ([]*models.CommunicationLog, error) {
	query := `SELECT ` + logColumns + `
		FROM communication_logs
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at`

	rows, err := r.db.QueryContext(ctx, query, models.LogStatusScheduled, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list due scheduled logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.CommunicationLog{}
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scheduled logs: %w", err)
	}

	return logs, nil
}

// Finalize moves a scheduled log to its terminal status with dispatch
// results. The status guard keeps a log from being finalized twice when a
// queue job is redelivered.
func (r *communicationLogRepository) Finalize(ctx context.Context, id int, sentCount, failedCount int, status models.LogStatus, report []models.DeliveryOutcome, sentAt time.Time) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery report: %w", err)
	}

	query := `
		UPDATE communication_logs
		SET sent_count = $2, failed_count = $3, status = $4,
			delivery_report = $5, sent_at = $6
		WHERE id = $1 AND status = $7
	`

	result, err := r.db.ExecContext(ctx, query, id, sentCount, failedCount, status, string(data), sentAt, models.LogStatusScheduled)
	if err != nil {
		return fmt.Errorf("failed to finalize communication log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
