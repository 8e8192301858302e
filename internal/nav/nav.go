// Package nav models the site's navigation as an explicit view-state value
// type. Resolve maps an address (path plus optional hash fragment) to a
// logical view, CanonicalPath maps a view back to its address, and State
// carries the current view through discrete transition functions, so the
// routing rules are testable without an HTTP server.
package nav

import "strings"

// View identifies exactly one logical page of the site.
type View string

const (
	ViewHome           View = "home"
	ViewAbout          View = "about"
	ViewServices       View = "services"
	ViewPricing        View = "pricing"
	ViewContact        View = "contact"
	ViewBlog           View = "blog"
	ViewBlogPost       View = "blog-post"
	ViewLogin          View = "login"
	ViewAdmin          View = "admin"
	ViewAdminLogin     View = "admin-login"
	ViewAdminDashboard View = "admin-dashboard"
	ViewAdminEditor    View = "admin-editor"
)

// staticRoutes maps exact paths to views. These are checked before the
// /blog/<slug> and /services/<name> prefix rules.
var staticRoutes = map[string]View{
	"/about":           ViewAbout,
	"/contact":         ViewContact,
	"/pricing":         ViewPricing,
	"/blog":            ViewBlog,
	"/login":           ViewLogin,
	"/admin":           ViewAdmin,
	"/admin/login":     ViewAdminLogin,
	"/admin/dashboard": ViewAdminDashboard,
	"/admin/editor":    ViewAdminEditor,
}

// Resolve translates a browser address into a (view, param) pair. The param
// is the post slug for ViewBlogPost and the service name for ViewServices;
// it is empty for every other view.
//
// Matching order: exact static routes, then the two prefix rules. The hash
// fragment is only consulted when the path matches no rule, so a path match
// always wins. Anything unmatched resolves to home — there is no not-found
// view at this level.
func Resolve(path, hash string) (View, string) {
	path = normalizePath(path)

	if v, ok := staticRoutes[path]; ok {
		return v, ""
	}
	if slug, ok := prefixParam(path, "/blog/"); ok {
		return ViewBlogPost, slug
	}
	if name, ok := prefixParam(path, "/services/"); ok {
		return ViewServices, name
	}

	if hash != "" {
		alias := "/" + strings.TrimPrefix(hash, "#")
		if v, ok := staticRoutes[alias]; ok {
			return v, ""
		}
		if slug, ok := prefixParam(alias, "/blog/"); ok {
			return ViewBlogPost, slug
		}
		if name, ok := prefixParam(alias, "/services/"); ok {
			return ViewServices, name
		}
	}

	return ViewHome, ""
}

// CanonicalPath returns the address pushed into history for a view: "/" for
// home, "/blog/<slug>" for a post, "/services/<name>" for a service page,
// and "/<view>" otherwise.
func CanonicalPath(v View, param string) string {
	switch v {
	case ViewHome:
		return "/"
	case ViewBlogPost:
		return "/blog/" + param
	case ViewServices:
		return "/services/" + param
	case ViewAdminLogin:
		return "/admin/login"
	case ViewAdminDashboard:
		return "/admin/dashboard"
	case ViewAdminEditor:
		return "/admin/editor"
	default:
		return "/" + string(v)
	}
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// prefixParam extracts the single trailing segment of path under prefix.
// It refuses params containing a further slash, so "/blog/a/b" falls
// through to the home fallback rather than yielding slug "a/b".
func prefixParam(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	param := strings.TrimPrefix(path, prefix)
	if param == "" || strings.Contains(param, "/") {
		return "", false
	}
	return param, true
}
