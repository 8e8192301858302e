package middleware

import (
	"fmt"
	"net/http"

	"go-agency-site/internal/logger"
	"go-agency-site/internal/view"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, v *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					errorPage(ww, r, v, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			if err := next(ww, r); err != nil {
				log.Error(err.Error, err.Message)
				errorPage(ww, r, v, err.Code, err.Message)
			}
		})
	}
}

// errorPage renders the error page for a failed handler. A status the
// handler already sent wins over the error's own code, and once body bytes
// are out the response is committed, so nothing more is appended.
func errorPage(ww chimw.WrapResponseWriter, r *http.Request, v *view.View, code int, text string) {
	if ww.BytesWritten() > 0 {
		return
	}
	if ww.Status() == 0 {
		ww.WriteHeader(code)
	}
	data := map[string]interface{}{
		"StatusCode": code,
		"StatusText": text,
	}
	v.Render(ww, r, "error.html", data)
}
