package middleware

import (
	"context"

	"go-agency-site/internal/data"
)

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// UserInfo represents the essential user information carried in the request
// context, resolved once per request from the session.
type UserInfo struct {
	ID    string
	Email string
	Name  string
	Role  data.Role
}

// IsAuthenticated reports whether a session user is present.
func (u *UserInfo) IsAuthenticated() bool {
	return u.ID != ""
}

// Subject returns the casbin subject for this user: the role name, "viewer"
// for an authenticated user without an elevated role, and "anonymous"
// otherwise.
func (u *UserInfo) Subject() string {
	if !u.IsAuthenticated() {
		return "anonymous"
	}
	if !u.Role.Valid() {
		return string(data.RoleViewer)
	}
	return string(u.Role)
}

// CanEdit reports whether this user may create or edit posts.
func (u *UserInfo) CanEdit() bool {
	return u.Role == data.RoleAdmin || u.Role == data.RoleEditor
}

// CanDelete reports whether this user may delete posts and manage users.
func (u *UserInfo) CanDelete() bool {
	return u.Role == data.RoleAdmin
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return &UserInfo{}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
