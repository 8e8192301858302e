package handler

import (
	"io/fs"
	"net/http"
	"time"

	"go-agency-site/internal/logger"
	"go-agency-site/internal/middleware"
	"go-agency-site/internal/nav"
	"go-agency-site/internal/session"
	"go-agency-site/internal/view"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RouterDeps bundles everything the router needs wired in.
type RouterDeps struct {
	Site     *SiteHandler
	Blog     *BlogHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
	SEO      *SEOHandler
	Session  session.Manager
	Profiles middleware.ProfileLoader
	Enforcer casbin.IEnforcer
	View     *view.View
	Log      logger.Logger
	StaticFS fs.FS
	// UploadsDir is the on-disk directory served under /uploads/.
	UploadsDir string
}

// NewRouter builds the chi router with the full middleware stack and all
// public and admin routes.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(deps.Session.LoadAndSave)
	r.Use(middleware.UserContext(deps.Session, deps.Profiles))

	handle := middleware.Error(deps.Log, deps.View)

	// Public site.
	r.Method(http.MethodGet, "/", handle(deps.Site.homeHandler))
	r.Method(http.MethodGet, "/about", handle(deps.Site.aboutHandler))
	r.Method(http.MethodGet, "/pricing", handle(deps.Site.pricingHandler))
	r.Method(http.MethodGet, "/services/{name}", handle(deps.Site.serviceHandler))
	r.Method(http.MethodGet, "/contact", handle(deps.Site.contactFormHandler))
	r.Method(http.MethodPost, "/contact", handle(deps.Site.contactSubmitHandler))

	r.Method(http.MethodGet, "/blog", handle(deps.Blog.listHandler))
	r.Method(http.MethodGet, "/blog/{slug}", handle(deps.Blog.detailHandler))
	r.Get("/blog/feed.xml", deps.SEO.feedHandler)

	r.Get("/robots.txt", deps.SEO.robotsHandler)
	r.Get("/sitemap.xml", deps.SEO.sitemapHandler)

	r.Method(http.MethodPost, "/logout", handle(deps.Auth.logoutHandler))
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/login", http.StatusMovedPermanently)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
		})
		// Login and sign-up stay outside the enforcer; attempts get a
		// tight per-IP limit.
		r.Method(http.MethodGet, "/login", handle(deps.Auth.loginFormHandler))
		r.With(httprate.LimitByIP(10, time.Minute)).
			Method(http.MethodPost, "/login", handle(deps.Auth.loginHandler))
		r.With(httprate.LimitByIP(10, time.Minute)).
			Method(http.MethodPost, "/signup", handle(deps.Auth.signUpHandler))

		// Everything else in the admin area is gated by the enforcer.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorizer(deps.Enforcer))

			r.Method(http.MethodGet, "/dashboard", handle(deps.Admin.dashboardHandler))
			r.Method(http.MethodGet, "/editor", handle(deps.Admin.editorHandler))
			r.Method(http.MethodGet, "/editor/{id}", handle(deps.Admin.editorHandler))
			r.Method(http.MethodPost, "/posts/save", handle(deps.Admin.saveHandler))
			r.Method(http.MethodPost, "/posts/preview", handle(deps.Admin.previewHandler))
			r.Method(http.MethodPost, "/posts/{id}/toggle", handle(deps.Admin.togglePublishHandler))
			r.Method(http.MethodPost, "/posts/{id}/delete", handle(deps.Admin.deleteHandler))
			r.Method(http.MethodGet, "/users", handle(deps.Admin.usersHandler))
			r.Method(http.MethodPost, "/users/create", handle(deps.Admin.createUserHandler))
			r.Method(http.MethodPost, "/users/{id}/role", handle(deps.Admin.updateRoleHandler))
			r.Method(http.MethodGet, "/contacts", handle(deps.Admin.contactsHandler))
			r.Method(http.MethodPost, "/images", handle(deps.Admin.uploadImageHandler))
		})
	})

	// JSON endpoint used by the editor's category picker.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}))
		r.With(middleware.Authorizer(deps.Enforcer)).
			Method(http.MethodGet, "/search/categories", handle(deps.Admin.searchCategoriesHandler))
	})

	// Assets. StaticFS embeds the static/ directory at its root, so the
	// file server maps /static/* directly without stripping the prefix.
	r.Handle("/static/*", http.FileServer(http.FS(deps.StaticFS)))
	fileServer := http.FileServer(http.Dir(deps.UploadsDir))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	// Anything else resolves through the navigation table: legacy paths
	// land on their canonical route, the rest falls back to home. The
	// self-redirect guard keeps an unroutable-but-resolvable path from
	// looping.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		v, param := nav.Resolve(r.URL.Path, r.URL.Fragment)
		target := nav.CanonicalPath(v, param)
		if target == r.URL.Path {
			target = "/"
		}
		http.Redirect(w, r, target, http.StatusFound)
	})

	return r
}
