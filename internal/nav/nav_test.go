//go:build unit

package nav

import "testing"

func TestResolve(t *testing.T) {
	testCases := []struct {
		name      string
		path      string
		hash      string
		wantView  View
		wantParam string
	}{
		{"root", "/", "", ViewHome, ""},
		{"about", "/about", "", ViewAbout, ""},
		{"contact", "/contact", "", ViewContact, ""},
		{"pricing", "/pricing", "", ViewPricing, ""},
		{"blog index", "/blog", "", ViewBlog, ""},
		{"login", "/login", "", ViewLogin, ""},
		{"admin", "/admin", "", ViewAdmin, ""},
		{"admin login", "/admin/login", "", ViewAdminLogin, ""},
		{"admin dashboard", "/admin/dashboard", "", ViewAdminDashboard, ""},
		{"admin editor", "/admin/editor", "", ViewAdminEditor, ""},
		{"blog post", "/blog/10-seo-tips-for-2025", "", ViewBlogPost, "10-seo-tips-for-2025"},
		{"service page", "/services/meta-ads", "", ViewServices, "meta-ads"},
		{"trailing slash", "/about/", "", ViewAbout, ""},
		{"unknown path falls back to home", "/unknown-path", "", ViewHome, ""},
		{"blog slug with extra segment falls back", "/blog/a/b", "", ViewHome, ""},
		{"empty blog slug falls back", "/blog/", "", ViewBlog, ""},
		{"hash alias", "/", "#about", ViewAbout, ""},
		{"hash alias without leading slash path", "", "#pricing", ViewPricing, ""},
		{"hash blog post", "/", "#blog/first-post", ViewBlogPost, "first-post"},
		{"path wins over hash", "/contact", "#about", ViewContact, ""},
		{"unknown hash falls back to home", "/", "#nope", ViewHome, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			view, param := Resolve(tc.path, tc.hash)
			if view != tc.wantView {
				t.Errorf("Resolve(%q, %q) view = %q, want %q", tc.path, tc.hash, view, tc.wantView)
			}
			if param != tc.wantParam {
				t.Errorf("Resolve(%q, %q) param = %q, want %q", tc.path, tc.hash, param, tc.wantParam)
			}
		})
	}
}

func TestCanonicalPath(t *testing.T) {
	testCases := []struct {
		view  View
		param string
		want  string
	}{
		{ViewHome, "", "/"},
		{ViewAbout, "", "/about"},
		{ViewBlog, "", "/blog"},
		{ViewBlogPost, "hello-world", "/blog/hello-world"},
		{ViewServices, "seo", "/services/seo"},
		{ViewAdminDashboard, "", "/admin/dashboard"},
		{ViewAdminEditor, "", "/admin/editor"},
	}
	for _, tc := range testCases {
		if got := CanonicalPath(tc.view, tc.param); got != tc.want {
			t.Errorf("CanonicalPath(%q, %q) = %q, want %q", tc.view, tc.param, got, tc.want)
		}
	}
}

func TestCanonicalPathRoundTrip(t *testing.T) {
	// Every canonical path must resolve back to the view it was built from.
	views := []struct {
		view  View
		param string
	}{
		{ViewHome, ""}, {ViewAbout, ""}, {ViewPricing, ""}, {ViewContact, ""},
		{ViewBlog, ""}, {ViewLogin, ""}, {ViewAdmin, ""},
		{ViewAdminLogin, ""}, {ViewAdminDashboard, ""}, {ViewAdminEditor, ""},
		{ViewBlogPost, "some-post"}, {ViewServices, "google-ads"},
	}
	for _, v := range views {
		gotView, gotParam := Resolve(CanonicalPath(v.view, v.param), "")
		if gotView != v.view || gotParam != v.param {
			t.Errorf("round trip for %q/%q resolved to %q/%q", v.view, v.param, gotView, gotParam)
		}
	}
}
