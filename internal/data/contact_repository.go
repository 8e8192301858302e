package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ContactRepository handles database operations for contact submissions.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// CreateSubmission inserts one contact form submission.
func (r *ContactRepository) CreateSubmission(ctx context.Context, sub *ContactSubmission) error {
	query := `INSERT INTO contact_submissions (id, name, email, phone, service, message, created_at)
		VALUES (:id, :name, :email, :phone, :service, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}
	return nil
}

// ListSubmissions retrieves all submissions, newest first.
func (r *ContactRepository) ListSubmissions(ctx context.Context) ([]*ContactSubmission, error) {
	var subs []*ContactSubmission
	query := `SELECT id, name, email, phone, service, message, created_at FROM contact_submissions ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	return subs, nil
}
