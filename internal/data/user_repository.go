package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for user profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user profile.
func (r *UserRepository) CreateUser(ctx context.Context, user *UserProfile) error {
	query := `INSERT INTO user_profiles (id, email, full_name, password_hash, role, created_at)
		VALUES (:id, :email, :full_name, :password_hash, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a profile by id. A missing row returns (nil, nil):
// the caller treats it as no elevated role, not as an error.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*UserProfile, error) {
	var user UserProfile
	query := `SELECT id, email, full_name, password_hash, role, created_at FROM user_profiles WHERE id = ?`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a profile by email, nil when absent.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*UserProfile, error) {
	var user UserProfile
	query := `SELECT id, email, full_name, password_hash, role, created_at FROM user_profiles WHERE email = ?`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// ListUsers retrieves all profiles ordered by creation time descending.
func (r *UserRepository) ListUsers(ctx context.Context) ([]*UserProfile, error) {
	var users []*UserProfile
	query := `SELECT id, email, full_name, password_hash, role, created_at FROM user_profiles ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateRole changes a user's role.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role Role) error {
	query := `UPDATE user_profiles SET role = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, role, id)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no user found to update with id %s", id)
	}
	return nil
}
