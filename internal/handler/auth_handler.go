package handler

import (
	"errors"
	"net/http"

	"go-agency-site/internal/data"
	"go-agency-site/internal/middleware"
	"go-agency-site/internal/service"
	"go-agency-site/internal/session"
	"go-agency-site/internal/view"
)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	users *service.UserService
	sm    session.Manager
	view  *view.View
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, sm session.Manager, v *view.View) *AuthHandler {
	return &AuthHandler{users: users, sm: sm, view: v}
}

// loginFormHandler renders the login page. An already-authenticated visitor
// is sent straight to the dashboard.
func (h *AuthHandler) loginFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if middleware.GetUserInfo(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
		return nil
	}
	if err := h.view.Render(w, r, "login.html", h.loginData(r, "", "")); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render login page", Code: http.StatusInternalServerError}
	}
	return nil
}

// loginHandler handles the email/password sign-in form. The session token
// is renewed on success to prevent session fixation.
func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			w.WriteHeader(http.StatusUnauthorized)
			if err := h.view.Render(w, r, "login.html", h.loginData(r, err.Error(), email)); err != nil {
				return &middleware.AppError{Error: err, Message: "Failed to render login page", Code: http.StatusInternalServerError}
			}
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Sign-in failed", Code: http.StatusInternalServerError}
	}

	if err := h.sm.RenewToken(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Sign-in failed", Code: http.StatusInternalServerError}
	}
	h.sm.Put(r.Context(), session.KeyUserID, user.ID)
	h.sm.Put(r.Context(), session.KeyRole, string(user.Role))

	http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
	return nil
}

// signUpHandler registers a new viewer account and signs it in.
func (h *AuthHandler) signUpHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	email := r.FormValue("email")
	password := r.FormValue("password")
	fullName := r.FormValue("full_name")

	user, err := h.users.CreateUser(r.Context(), email, password, fullName, data.RoleViewer)
	if err != nil {
		var verrs service.ValidationErrors
		if errors.As(err, &verrs) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			pageData := h.loginData(r, "", email)
			pageData["SignUpErrors"] = verrs
			if err := h.view.Render(w, r, "login.html", pageData); err != nil {
				return &middleware.AppError{Error: err, Message: "Failed to render login page", Code: http.StatusInternalServerError}
			}
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Sign-up failed", Code: http.StatusInternalServerError}
	}

	if err := h.sm.RenewToken(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Sign-up failed", Code: http.StatusInternalServerError}
	}
	h.sm.Put(r.Context(), session.KeyUserID, user.ID)
	h.sm.Put(r.Context(), session.KeyRole, string(user.Role))

	http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
	return nil
}

// logoutHandler destroys the session and returns to the home page.
func (h *AuthHandler) logoutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.sm.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Sign-out failed", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

func (h *AuthHandler) loginData(r *http.Request, loginError, email string) map[string]interface{} {
	return map[string]interface{}{
		"User":       middleware.GetUserInfo(r.Context()),
		"LoginError": loginError,
		"Email":      email,
	}
}
