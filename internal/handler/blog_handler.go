package handler

import (
	"net/http"

	"go-agency-site/internal/logger"
	"go-agency-site/internal/middleware"
	"go-agency-site/internal/service"
	"go-agency-site/internal/view"

	"github.com/go-chi/chi/v5"
)

// BlogHandler serves the public blog list and detail pages.
type BlogHandler struct {
	blog *service.BlogService
	view *view.View
	log  logger.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blog *service.BlogService, v *view.View, log logger.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, view: v, log: log}
}

// listHandler renders published posts. Category and search filters come
// from query parameters and compose with AND.
func (h *BlogHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = service.CategoryAll
	}
	search := r.URL.Query().Get("q")

	posts, err := h.blog.ListPublished(r.Context(), category, search)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load posts", Code: http.StatusInternalServerError}
	}
	categories, err := h.blog.CategoryOptions(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load categories", Code: http.StatusInternalServerError}
	}

	pageData := map[string]interface{}{
		"User":       middleware.GetUserInfo(r.Context()),
		"Posts":      posts,
		"Categories": categories,
		"Category":   category,
		"Search":     search,
	}
	if err := h.view.Render(w, r, "blog.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render blog", Code: http.StatusInternalServerError}
	}
	return nil
}

// detailHandler renders one published post. A slug with no matching
// published row is a normal outcome: the not-found page renders with a 404
// status and no related-posts lookup is made.
func (h *BlogHandler) detailHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")

	post, err := h.blog.GetBySlug(r.Context(), slug)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load post", Code: http.StatusInternalServerError}
	}
	if post == nil {
		w.WriteHeader(http.StatusNotFound)
		pageData := map[string]interface{}{
			"User": middleware.GetUserInfo(r.Context()),
		}
		if err := h.view.Render(w, r, "blog_not_found.html", pageData); err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to render post", Code: http.StatusInternalServerError}
		}
		return nil
	}

	// Related posts are best-effort; the page renders without them.
	related, err := h.blog.Related(r.Context(), post)
	if err != nil {
		h.log.Error(err, "Failed to load related posts")
		related = nil
	}

	pageData := map[string]interface{}{
		"User":    middleware.GetUserInfo(r.Context()),
		"Post":    post,
		"Related": related,
		"Meta":    service.MetaForPost(post),
	}
	if err := h.view.Render(w, r, "blog_post.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post", Code: http.StatusInternalServerError}
	}
	return nil
}
