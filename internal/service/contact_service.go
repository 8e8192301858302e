package service

import (
	"context"
	"strings"
	"time"

	"go-agency-site/internal/data"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// ContactRepository defines the interface for storing contact submissions.
type ContactRepository interface {
	CreateSubmission(ctx context.Context, sub *data.ContactSubmission) error
	ListSubmissions(ctx context.Context) ([]*data.ContactSubmission, error)
}

// messagePolicy strips markup from the free-text message field. The contact
// form is the one place untrusted visitors write into the store.
var messagePolicy = bluemonday.StrictPolicy()

// ContactService handles contact form intake.
type ContactService struct {
	repo ContactRepository
}

// NewContactService creates a new ContactService.
func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// Submit validates and stores one contact form submission. Validation
// failures are returned before any store call is made.
func (s *ContactService) Submit(ctx context.Context, name, email, phone, service, message string) error {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	message = strings.TrimSpace(message)

	errs := ValidationErrors{}
	if name == "" {
		errs["name"] = "Name is required"
	}
	if email == "" || !strings.Contains(email, "@") {
		errs["email"] = "A valid email address is required"
	}
	if message == "" {
		errs["message"] = "Message is required"
	}
	if len(errs) > 0 {
		return errs
	}

	sub := &data.ContactSubmission{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		Service:   strings.TrimSpace(service),
		Message:   messagePolicy.Sanitize(message),
		CreatedAt: time.Now(),
	}
	return s.repo.CreateSubmission(ctx, sub)
}

// ListSubmissions returns all submissions for the admin area, newest first.
func (s *ContactService) ListSubmissions(ctx context.Context) ([]*data.ContactSubmission, error) {
	return s.repo.ListSubmissions(ctx)
}
