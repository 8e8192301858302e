package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-agency-site/internal/data"
	"go-agency-site/internal/logger"
	"go-agency-site/internal/middleware"
	"go-agency-site/internal/service"
	"go-agency-site/internal/session"
	"go-agency-site/internal/storage"
	"go-agency-site/internal/view"

	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the admin area: post management, user management,
// contact submissions, and image uploads.
type AdminHandler struct {
	posts      *service.PostService
	users      *service.UserService
	contacts   *service.ContactService
	categories *data.CategoryRepository
	images     *storage.ImageStore
	view       *view.View
	sm         session.Manager
	log        logger.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	posts *service.PostService,
	users *service.UserService,
	contacts *service.ContactService,
	categories *data.CategoryRepository,
	images *storage.ImageStore,
	v *view.View,
	sm session.Manager,
	log logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		posts: posts, users: users, contacts: contacts, categories: categories,
		images: images, view: v, sm: sm, log: log,
	}
}

// dashboardHandler lists every post, drafts included, optionally filtered
// by status. Which actions render next to each post depends on the role.
func (h *AdminHandler) dashboardHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	posts, err := h.posts.ListAll(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load posts", Code: http.StatusInternalServerError}
	}

	statusFilter := r.URL.Query().Get("status")
	if status := data.PostStatus(statusFilter); status.Valid() {
		filtered := posts[:0]
		for _, p := range posts {
			if p.Status == status {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}

	pageData := map[string]interface{}{
		"User":         middleware.GetUserInfo(r.Context()),
		"Posts":        posts,
		"StatusFilter": statusFilter,
		"Flash":        h.sm.PopString(r.Context(), session.KeyFlash),
	}
	if err := h.view.Render(w, r, "admin_dashboard.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render dashboard", Code: http.StatusInternalServerError}
	}
	return nil
}

// editorHandler renders the editor, empty for a new post or loaded verbatim
// from an existing one.
func (h *AdminHandler) editorHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var form *service.PostForm
	existingID := chi.URLParam(r, "id")
	if existingID != "" {
		post, err := h.posts.EditPost(r.Context(), existingID)
		if err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to load post", Code: http.StatusInternalServerError}
		}
		if post == nil {
			return &middleware.AppError{Error: errors.New("post not found"), Message: "Post not found", Code: http.StatusNotFound}
		}
		form = service.FormFromPost(post)
	} else {
		form = &service.PostForm{Status: data.StatusDraft}
	}
	return h.renderEditor(w, r, form, existingID, nil, "")
}

// saveHandler persists the editor form. Validation failures and store
// errors (a duplicate slug included) re-render the editor with the form
// state preserved so the operator can correct and retry.
func (h *AdminHandler) saveHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Malformed form submission", Code: http.StatusBadRequest}
	}
	existingID := r.FormValue("post_id")
	publishNow := r.FormValue("publish_now") == "1"

	values := formValues(r)
	// New posts derive a missing slug from the title; an existing post's
	// slug is never regenerated behind the editor's back.
	if existingID == "" && values["slug"] == "" {
		values["slug"] = service.Slugify(values["title"])
	}

	form, verrs := service.ParseForm(values)
	if verrs != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return h.renderEditor(w, r, form, existingID, verrs, "")
	}

	if _, err := h.posts.Save(r.Context(), form, existingID, publishNow); err != nil {
		h.log.Error(err, "Failed to save post")
		w.WriteHeader(http.StatusInternalServerError)
		return h.renderEditor(w, r, form, existingID, nil,
			"Could not save the post. If you changed the slug, it may already be in use.")
	}

	h.sm.Put(r.Context(), session.KeyFlash, "Post saved.")
	http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
	return nil
}

// previewHandler renders the current in-memory form state in the public
// post shape without persisting anything.
func (h *AdminHandler) previewHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Malformed form submission", Code: http.StatusBadRequest}
	}
	form, _ := service.ParseForm(formValues(r))

	post := &data.Post{
		Title:         form.Title,
		Excerpt:       form.Excerpt,
		Content:       form.Content,
		FeaturedImage: form.FeaturedImage,
		Category:      form.Category,
		Tags:          service.SplitList(form.Tags),
		AuthorName:    form.AuthorName,
		ReadingTime:   service.ReadingTime(form.Content),
	}
	post.HTMLContent = service.RenderContent(post.Content)

	pageData := map[string]interface{}{
		"User":    middleware.GetUserInfo(r.Context()),
		"Post":    post,
		"Preview": true,
	}
	if err := h.view.Render(w, r, "blog_post.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render preview", Code: http.StatusInternalServerError}
	}
	return nil
}

// deleteHandler removes a post. The route is admin-only; the confirmation
// step happens in the dashboard before this is reached.
func (h *AdminHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := chi.URLParam(r, "id")
	if err := h.posts.Delete(r.Context(), id); err != nil {
		h.log.Error(err, "Failed to delete post")
		h.sm.Put(r.Context(), session.KeyFlash, "Could not delete the post. Please try again.")
	} else {
		h.sm.Put(r.Context(), session.KeyFlash, "Post deleted.")
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
	return nil
}

// togglePublishHandler flips a post between draft and published from the
// dashboard, without opening the editor.
func (h *AdminHandler) togglePublishHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := chi.URLParam(r, "id")
	post, err := h.posts.TogglePublish(r.Context(), id)
	if err != nil {
		h.log.Error(err, "Failed to toggle publish status")
		h.sm.Put(r.Context(), session.KeyFlash, "Could not change the post's status. Please try again.")
	} else if post.Status == data.StatusPublished {
		h.sm.Put(r.Context(), session.KeyFlash, "Post published.")
	} else {
		h.sm.Put(r.Context(), session.KeyFlash, "Post moved back to drafts.")
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
	return nil
}

// usersHandler lists profiles for the admin-only role management screen.
func (h *AdminHandler) usersHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load users", Code: http.StatusInternalServerError}
	}
	pageData := map[string]interface{}{
		"User":  middleware.GetUserInfo(r.Context()),
		"Users": users,
		"Roles": []data.Role{data.RoleAdmin, data.RoleEditor, data.RoleViewer},
		"Flash": h.sm.PopString(r.Context(), session.KeyFlash),
	}
	if err := h.view.Render(w, r, "admin_users.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render users", Code: http.StatusInternalServerError}
	}
	return nil
}

// createUserHandler creates an account with an assigned role, bypassing any
// email confirmation.
func (h *AdminHandler) createUserHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	_, err := h.users.CreateUser(
		r.Context(),
		r.FormValue("email"),
		r.FormValue("password"),
		r.FormValue("full_name"),
		data.Role(r.FormValue("role")),
	)
	if err != nil {
		var verrs service.ValidationErrors
		if errors.As(err, &verrs) {
			users, lerr := h.users.ListUsers(r.Context())
			if lerr != nil {
				return &middleware.AppError{Error: lerr, Message: "Failed to load users", Code: http.StatusInternalServerError}
			}
			pageData := map[string]interface{}{
				"User":   middleware.GetUserInfo(r.Context()),
				"Users":  users,
				"Roles":  []data.Role{data.RoleAdmin, data.RoleEditor, data.RoleViewer},
				"Errors": verrs,
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			if err := h.view.Render(w, r, "admin_users.html", pageData); err != nil {
				return &middleware.AppError{Error: err, Message: "Failed to render users", Code: http.StatusInternalServerError}
			}
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Failed to create user", Code: http.StatusInternalServerError}
	}

	h.sm.Put(r.Context(), session.KeyFlash, "User created.")
	http.Redirect(w, r, "/admin/users", http.StatusFound)
	return nil
}

// updateRoleHandler changes one user's role.
func (h *AdminHandler) updateRoleHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := chi.URLParam(r, "id")
	role := data.Role(r.FormValue("role"))
	if err := h.users.UpdateRole(r.Context(), id, role); err != nil {
		h.log.Error(err, "Failed to update user role")
		h.sm.Put(r.Context(), session.KeyFlash, "Could not update the role. Please try again.")
	} else {
		h.sm.Put(r.Context(), session.KeyFlash, "Role updated.")
	}
	http.Redirect(w, r, "/admin/users", http.StatusFound)
	return nil
}

// contactsHandler lists contact form submissions.
func (h *AdminHandler) contactsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	subs, err := h.contacts.ListSubmissions(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load submissions", Code: http.StatusInternalServerError}
	}
	pageData := map[string]interface{}{
		"User":        middleware.GetUserInfo(r.Context()),
		"Submissions": subs,
	}
	if err := h.view.Render(w, r, "admin_contacts.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render submissions", Code: http.StatusInternalServerError}
	}
	return nil
}

// uploadImageHandler stores a featured image and returns its public URL as
// JSON for the editor form.
func (h *AdminHandler) uploadImageHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseMultipartForm(h.images.MaxBytes()); err != nil {
		return h.uploadError(w, http.StatusBadRequest, "Upload too large or malformed")
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return h.uploadError(w, http.StatusBadRequest, "No image file provided")
	}
	defer file.Close()
	if header.Size > h.images.MaxBytes() {
		return h.uploadError(w, http.StatusBadRequest, "File too large")
	}

	url, err := h.images.Save(file, header.Filename)
	if err != nil {
		h.log.Error(err, "Failed to store uploaded image")
		return h.uploadError(w, http.StatusBadRequest, "Invalid image file")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
	return nil
}

// uploadError writes an upload failure as JSON, since the caller is the
// editor's fetch script rather than a full page load.
func (h *AdminHandler) uploadError(w http.ResponseWriter, code int, message string) *middleware.AppError {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
	return nil
}

// searchCategoriesHandler is a small JSON endpoint backing the editor's
// category picker.
func (h *AdminHandler) searchCategoriesHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	query := r.URL.Query().Get("q")
	var (
		categories []*data.Category
		err        error
	)
	if query == "" {
		categories, err = h.categories.GetAll()
	} else {
		categories, err = h.categories.SearchByName(query)
	}
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to search categories", Code: http.StatusInternalServerError}
	}
	if categories == nil {
		categories = []*data.Category{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
	return nil
}

func (h *AdminHandler) renderEditor(w http.ResponseWriter, r *http.Request, form *service.PostForm, existingID string, verrs service.ValidationErrors, saveError string) *middleware.AppError {
	categories, err := h.categories.GetAll()
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load categories", Code: http.StatusInternalServerError}
	}
	pageData := map[string]interface{}{
		"User":       middleware.GetUserInfo(r.Context()),
		"Form":       form,
		"PostID":     existingID,
		"IsNew":      existingID == "",
		"Categories": categories,
		"Errors":     verrs,
		"SaveError":  saveError,
	}
	if err := h.view.Render(w, r, "admin_editor.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render editor", Code: http.StatusInternalServerError}
	}
	return nil
}

// formValues flattens the request's form into the map ParseForm expects.
func formValues(r *http.Request) map[string]string {
	values := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}
	return values
}
