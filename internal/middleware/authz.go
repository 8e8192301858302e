package middleware

import (
	"context"
	"net/http"

	"go-agency-site/internal/data"
	"go-agency-site/internal/session"

	"github.com/casbin/casbin/v2"
)

// ProfileLoader is the slice of the user repository the user-context
// middleware needs to resolve a session's profile.
type ProfileLoader interface {
	GetUserByID(ctx context.Context, id string) (*data.UserProfile, error)
}

// UserContext re-resolves the session's user and role on every request and
// places a UserInfo in the request context. This is the server-side
// equivalent of a session-change subscription: handlers never poll the
// session themselves, they read the context. A session whose profile row
// has disappeared degrades to an authenticated user with no elevated role.
func UserContext(sm session.Manager, profiles ProfileLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := &UserInfo{}
			if id := sm.GetString(r.Context(), session.KeyUserID); id != "" {
				userInfo.ID = id
				if profile, err := profiles.GetUserByID(r.Context(), id); err == nil && profile != nil {
					userInfo.Email = profile.Email
					userInfo.Name = profile.FullName
					userInfo.Role = profile.Role
				}
			}
			next.ServeHTTP(w, r.WithContext(SetUserInfo(r.Context(), userInfo)))
		})
	}
}

// Authorizer creates a new middleware for authorization. It checks the
// user's permissions using Casbin based on the subject resolved by
// UserContext. Anonymous visitors hitting a protected route are sent to the
// login page; authenticated users lacking the role get a 403.
func Authorizer(e casbin.IEnforcer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := GetUserInfo(r.Context())

			allowed, err := e.Enforce(userInfo.Subject(), r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				if !userInfo.IsAuthenticated() {
					http.Redirect(w, r, "/admin/login", http.StatusFound)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
