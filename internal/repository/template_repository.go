package repository

import (
	"context"
	"database/sql"
	"fmt"

	"propertypulse/internal/models"
)

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create creates a new message template
func (r *templateRepository) Create(ctx context.Context, template *models.MessageTemplate) error {
	query := `
		INSERT INTO message_templates (name, channel_affinity, category, subject, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		template.Name,
		template.ChannelAffinity,
		template.Category,
		template.Subject,
		template.Body,
	).Scan(&template.ID, &template.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by ID
func (r *templateRepository) GetByID(ctx context.Context, id int) (*models.MessageTemplate, error) {
	query := `
		SELECT id, name, channel_affinity, category, subject, body, created_at
		FROM message_templates
		WHERE id = $1
	`

	template := &models.MessageTemplate{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&template.ID,
		&template.Name,
		&template.ChannelAffinity,
		&template.Category,
		&template.Subject,
		&template.Body,
		&template.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return template, nil
}

// List retrieves templates, optionally filtered by category
func (r *templateRepository) List(ctx context.Context, category string) ([]*models.MessageTemplate, error) {
	query := `
		SELECT id, name, channel_affinity, category, subject, body, created_at
		FROM message_templates
	`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.MessageTemplate{}
	for rows.Next() {
		template := &models.MessageTemplate{}
		err := rows.Scan(
			&template.ID,
			&template.Name,
			&template.ChannelAffinity,
			&template.Category,
			&template.Subject,
			&template.Body,
			&template.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	return templates, nil
}

// Delete hard-deletes a template. Communication logs snapshot the rendered
// body, so no dependent rows exist.
func (r *templateRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM message_templates WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
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

// ExistsByCategory reports whether any template with the given category exists
func (r *templateRepository) ExistsByCategory(ctx context.Context, category string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM message_templates WHERE category = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, category).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check template category: %w", err)
	}

	return exists, nil
}
