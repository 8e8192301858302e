package session

import (
	"context"
	"net/http"
)

// Manager is an interface that abstracts the session management
// implementation. This allows for easier testing and dependency injection.
// *scs.SessionManager satisfies it.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}

// Keys under which login state is stored in the session.
const (
	KeyUserID = "user_id"
	KeyRole   = "user_role"
	// KeyFlash holds a one-shot confirmation message read with PopString.
	KeyFlash = "flash"
)
