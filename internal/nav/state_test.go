//go:build unit

package nav

import "testing"

func TestNewStateResolvesInitialAddress(t *testing.T) {
	s := NewState("/blog/first-post", "")
	if s.CurrentView != ViewBlogPost {
		t.Errorf("expected view %q, got %q", ViewBlogPost, s.CurrentView)
	}
	if s.BlogSlug != "first-post" {
		t.Errorf("expected slug 'first-post', got %q", s.BlogSlug)
	}
	if s.HistoryLen() != 1 {
		t.Errorf("expected 1 history entry, got %d", s.HistoryLen())
	}
}

func TestNavigateToPushesOneEntry(t *testing.T) {
	s := NewState("/", "")

	s.NavigateTo(ViewPricing, "")
	if s.HistoryLen() != 2 {
		t.Fatalf("expected 2 history entries, got %d", s.HistoryLen())
	}
	if s.CurrentPath() != "/pricing" {
		t.Errorf("expected current path '/pricing', got %q", s.CurrentPath())
	}

	// Navigating to the current view must not create a duplicate entry.
	s.NavigateTo(ViewPricing, "")
	if s.HistoryLen() != 2 {
		t.Errorf("duplicate navigation grew history to %d entries", s.HistoryLen())
	}
}

func TestNavigateResetsScroll(t *testing.T) {
	s := NewState("/pricing", "")
	s.Scroll = ScrollPos{X: 0, Y: 1400}

	s.NavigateTo(ViewContact, "")

	if s.Scroll != (ScrollPos{}) {
		t.Errorf("expected scroll reset to origin, got %+v", s.Scroll)
	}
}

func TestBackForward(t *testing.T) {
	s := NewState("/", "")
	s.NavigateTo(ViewBlog, "")
	s.NavigateTo(ViewBlogPost, "hello")

	if !s.Back() {
		t.Fatal("expected Back to succeed")
	}
	if s.CurrentView != ViewBlog {
		t.Errorf("after back, expected view %q, got %q", ViewBlog, s.CurrentView)
	}
	if s.HistoryLen() != 3 {
		t.Errorf("back must not change history length, got %d", s.HistoryLen())
	}

	if !s.Forward() {
		t.Fatal("expected Forward to succeed")
	}
	if s.CurrentView != ViewBlogPost || s.BlogSlug != "hello" {
		t.Errorf("after forward, got view %q slug %q", s.CurrentView, s.BlogSlug)
	}

	s.Back()
	s.Back()
	if s.Back() {
		t.Error("Back at the start of history should report false")
	}
	if s.CurrentView != ViewHome {
		t.Errorf("expected home at history start, got %q", s.CurrentView)
	}
}

func TestNavigateAfterBackDiscardsForwardEntries(t *testing.T) {
	s := NewState("/", "")
	s.NavigateTo(ViewBlog, "")
	s.NavigateTo(ViewPricing, "")
	s.Back()

	s.NavigateTo(ViewContact, "")

	if s.HistoryLen() != 3 {
		t.Errorf("expected 3 entries after branch, got %d", s.HistoryLen())
	}
	if s.Forward() {
		t.Error("expected no forward entry after branching navigation")
	}
	if s.CurrentPath() != "/contact" {
		t.Errorf("expected current path '/contact', got %q", s.CurrentPath())
	}
}

func TestBeginFinishEdit(t *testing.T) {
	s := NewState("/admin/dashboard", "")
	s.SetSession(true, "editor")

	s.BeginEdit("post-42")
	if s.CurrentView != ViewAdminEditor {
		t.Errorf("expected editor view, got %q", s.CurrentView)
	}
	if s.EditingPostID != "post-42" {
		t.Errorf("expected editing post 'post-42', got %q", s.EditingPostID)
	}

	s.FinishEdit()
	if s.CurrentView != ViewAdminDashboard {
		t.Errorf("expected dashboard view, got %q", s.CurrentView)
	}
	if s.EditingPostID != "" {
		t.Errorf("expected editing post cleared, got %q", s.EditingPostID)
	}
}

func TestSetSessionClearsEditingOnLogout(t *testing.T) {
	s := NewState("/admin/dashboard", "")
	s.SetSession(true, "admin")
	s.BeginEdit("post-1")

	s.SetSession(false, "")

	if s.IsAuthenticated {
		t.Error("expected unauthenticated state")
	}
	if s.EditingPostID != "" {
		t.Errorf("expected editing post cleared on logout, got %q", s.EditingPostID)
	}
}
