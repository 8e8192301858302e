package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-agency-site/internal/data"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the interface for database operations on profiles.
type UserRepository interface {
	CreateUser(ctx context.Context, user *data.UserProfile) error
	GetUserByID(ctx context.Context, id string) (*data.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (*data.UserProfile, error)
	ListUsers(ctx context.Context) ([]*data.UserProfile, error)
	UpdateRole(ctx context.Context, id string, role data.Role) error
}

// ErrInvalidCredentials is returned for any email/password mismatch. The
// message is deliberately identical for unknown emails and wrong passwords.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

const minPasswordLength = 8

// UserService handles authentication and profile management.
type UserService struct {
	repo UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Authenticate verifies an email/password pair and returns the profile.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*data.UserProfile, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CreateUser registers a new profile with the given role. Used both by the
// public sign-up (role viewer) and by the admin "create user" action, which
// may assign any role and bypasses any confirmation step.
func (s *UserService) CreateUser(ctx context.Context, email, password, fullName string, role data.Role) (*data.UserProfile, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ValidationErrors{"email": "A valid email address is required"}
	}
	if len(password) < minPasswordLength {
		return nil, ValidationErrors{"password": fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}
	if !role.Valid() {
		role = data.RoleViewer
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ValidationErrors{"email": "An account with this email already exists"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &data.UserProfile{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResolveRole answers the role carried by a session's user id. A missing
// profile row means no elevated role, not an error.
func (s *UserService) ResolveRole(ctx context.Context, userID string) (data.Role, error) {
	if userID == "" {
		return "", nil
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.Role, nil
}

// ListUsers returns all profiles, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]*data.UserProfile, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateRole changes a user's role.
func (s *UserService) UpdateRole(ctx context.Context, id string, role data.Role) error {
	if !role.Valid() {
		return ValidationErrors{"role": "Unknown role"}
	}
	return s.repo.UpdateRole(ctx, id, role)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
