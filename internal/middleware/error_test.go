//go:build unit

package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-agency-site/internal/config"
	"go-agency-site/internal/logger"
	"go-agency-site/internal/view"
	"go-agency-site/web"
)

func newErrorMiddleware(t *testing.T) func(AppHandler) http.Handler {
	t.Helper()
	v, err := view.New(web.TemplateFS)
	if err != nil {
		t.Fatalf("Failed to parse templates: %v", err)
	}
	log := logger.New(config.LogConfig{Level: "error", Format: "console"}, io.Discard)
	return Error(log, v)
}

func serve(h http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	return rr
}

func TestError_RendersErrorPage(t *testing.T) {
	handle := newErrorMiddleware(t)

	rr := serve(handle(func(w http.ResponseWriter, r *http.Request) *AppError {
		return &AppError{Error: errors.New("boom"), Message: "Something failed", Code: http.StatusInternalServerError}
	}))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("want 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Something failed") {
		t.Error("error page missing the failure message")
	}
}

func TestError_NilErrorWritesNothing(t *testing.T) {
	handle := newErrorMiddleware(t)

	rr := serve(handle(func(w http.ResponseWriter, r *http.Request) *AppError {
		io.WriteString(w, "ok")
		return nil
	}))

	if rr.Code != http.StatusOK {
		t.Errorf("want 200, got %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("body altered: %q", rr.Body.String())
	}
}

func TestError_KeepsStatusAlreadySent(t *testing.T) {
	handle := newErrorMiddleware(t)

	// A handler that sets its status before a render that then fails must
	// not have the error's code sent on top of the committed one.
	rr := serve(handle(func(w http.ResponseWriter, r *http.Request) *AppError {
		w.WriteHeader(http.StatusNotFound)
		return &AppError{Error: errors.New("render failed"), Message: "Failed to render", Code: http.StatusInternalServerError}
	}))

	if rr.Code != http.StatusNotFound {
		t.Errorf("want the handler's 404 kept, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Failed to render") {
		t.Error("error page missing after early status")
	}
}

func TestError_SkipsPageAfterBodyBytes(t *testing.T) {
	handle := newErrorMiddleware(t)

	rr := serve(handle(func(w http.ResponseWriter, r *http.Request) *AppError {
		io.WriteString(w, "partial")
		return &AppError{Error: errors.New("late failure"), Message: "Failed late", Code: http.StatusInternalServerError}
	}))

	if rr.Body.String() != "partial" {
		t.Errorf("error page appended to a committed response: %q", rr.Body.String())
	}
}

func TestError_RecoversPanic(t *testing.T) {
	handle := newErrorMiddleware(t)

	rr := serve(handle(func(w http.ResponseWriter, r *http.Request) *AppError {
		panic("boom")
	}))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("want 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Internal Server Error") {
		t.Error("error page missing after panic")
	}
}
