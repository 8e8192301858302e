package nav

// Entry is one history entry: the address the browser would show for a view.
type Entry struct {
	Path string
	View View
	// Param holds the blog slug or service name captured for the view.
	Param string
}

// ScrollPos is a viewport offset. Navigation resets it to the origin.
type ScrollPos struct {
	X, Y int
}

// State is the in-memory view state for one visitor session. It is a plain
// value: every mutation goes through a transition method and the whole
// thing is serializable, so the navigation rules can be exercised in tests
// with no browser.
type State struct {
	CurrentView     View
	BlogSlug        string
	ServiceName     string
	IsAuthenticated bool
	Role            string
	EditingPostID   string
	Scroll          ScrollPos

	history []Entry
	// cursor indexes the current entry within history; back/forward moves
	// it without growing the stack.
	cursor int
}

// NewState initializes view state from the given address, as on first load.
func NewState(path, hash string) *State {
	v, param := Resolve(path, hash)
	s := &State{}
	s.apply(v, param)
	s.history = []Entry{{Path: CanonicalPath(v, param), View: v, Param: param}}
	s.cursor = 0
	return s
}

// NavigateTo moves to the given view, pushing exactly one new history entry
// whose address is the canonical path for the view. Navigating to the view
// already current is a no-op: no duplicate entry is created. Any forward
// history beyond the cursor is discarded, and the scroll position resets to
// the origin.
func (s *State) NavigateTo(v View, param string) {
	path := CanonicalPath(v, param)
	if s.cursor < len(s.history) && s.history[s.cursor].Path == path {
		return
	}
	s.apply(v, param)
	s.history = append(s.history[:s.cursor+1], Entry{Path: path, View: v, Param: param})
	s.cursor = len(s.history) - 1
	s.Scroll = ScrollPos{}
}

// Back moves one entry backwards, re-resolving the now-current address
// without pushing a new entry. It reports whether a move happened.
func (s *State) Back() bool {
	if s.cursor == 0 {
		return false
	}
	s.cursor--
	s.pop()
	return true
}

// Forward moves one entry forwards, the counterpart of Back.
func (s *State) Forward() bool {
	if s.cursor >= len(s.history)-1 {
		return false
	}
	s.cursor++
	s.pop()
	return true
}

// pop re-resolves the entry under the cursor, mirroring a browser popstate:
// state updates, no push, scroll resets.
func (s *State) pop() {
	e := s.history[s.cursor]
	v, param := Resolve(e.Path, "")
	s.apply(v, param)
	s.Scroll = ScrollPos{}
}

// HistoryLen returns the number of entries in the history stack.
func (s *State) HistoryLen() int {
	return len(s.history)
}

// CurrentPath returns the address of the current history entry.
func (s *State) CurrentPath() string {
	return s.history[s.cursor].Path
}

// SetSession records the current login state. Logging out clears any
// in-progress edit.
func (s *State) SetSession(authenticated bool, role string) {
	s.IsAuthenticated = authenticated
	s.Role = role
	if !authenticated {
		s.EditingPostID = ""
	}
}

// BeginEdit loads a post into the editor; an empty id means a new post.
func (s *State) BeginEdit(postID string) {
	s.EditingPostID = postID
	s.NavigateTo(ViewAdminEditor, "")
}

// FinishEdit leaves the editor and returns to the dashboard.
func (s *State) FinishEdit() {
	s.EditingPostID = ""
	s.NavigateTo(ViewAdminDashboard, "")
}

func (s *State) apply(v View, param string) {
	s.CurrentView = v
	s.BlogSlug = ""
	s.ServiceName = ""
	switch v {
	case ViewBlogPost:
		s.BlogSlug = param
	case ViewServices:
		s.ServiceName = param
	}
}
