//go:build unit

package service

import (
	"context"
	"errors"
	"testing"

	"go-agency-site/internal/data"
)

// mockContactRepository records submissions in memory.
type mockContactRepository struct {
	subs []*data.ContactSubmission
}

var _ ContactRepository = (*mockContactRepository)(nil)

func (m *mockContactRepository) CreateSubmission(ctx context.Context, sub *data.ContactSubmission) error {
	copied := *sub
	m.subs = append(m.subs, &copied)
	return nil
}

func (m *mockContactRepository) ListSubmissions(ctx context.Context) ([]*data.ContactSubmission, error) {
	return m.subs, nil
}

func TestContactService_Submit(t *testing.T) {
	repo := &mockContactRepository{}
	svc := NewContactService(repo)

	err := svc.Submit(context.Background(), " Jane ", "Jane@Example.com", "555-0100", "SEO Services", "Help with rankings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(repo.subs))
	}
	sub := repo.subs[0]
	if sub.Name != "Jane" || sub.Email != "jane@example.com" {
		t.Errorf("fields not normalized: %+v", sub)
	}
	if sub.ID == "" {
		t.Error("submission should get an id")
	}
}

func TestContactService_Submit_ValidationBeforeStore(t *testing.T) {
	repo := &mockContactRepository{}
	svc := NewContactService(repo)

	err := svc.Submit(context.Background(), "", "bad-email", "", "", "")
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("want ValidationErrors, got %v", err)
	}
	for _, field := range []string{"name", "email", "message"} {
		if _, ok := verrs[field]; !ok {
			t.Errorf("missing validation error for %q", field)
		}
	}
	if len(repo.subs) != 0 {
		t.Error("invalid submission must not reach the store")
	}
}

func TestContactService_Submit_StripsMarkup(t *testing.T) {
	repo := &mockContactRepository{}
	svc := NewContactService(repo)

	err := svc.Submit(context.Background(), "Jane", "jane@example.com", "", "Other",
		`<script>alert(1)</script>Please call me`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.subs[0].Message; got != "Please call me" {
		t.Errorf("message = %q, want markup stripped", got)
	}
}
