package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-agency-site/internal/cache"
	"go-agency-site/internal/data"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// PostRepository defines the interface for database operations on posts.
type PostRepository interface {
	CreatePost(ctx context.Context, post *data.Post) error
	GetPostByID(ctx context.Context, id string) (*data.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*data.Post, error)
	ListPublished(ctx context.Context) ([]*data.Post, error)
	ListAll(ctx context.Context) ([]*data.Post, error)
	ListRelated(ctx context.Context, category, excludeID string, limit int) ([]*data.Post, error)
	UpdatePost(ctx context.Context, post *data.Post) error
	DeletePost(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
	DistinctCategories(ctx context.Context) ([]string, error)
}

// wordsPerMinute is the reading speed assumed when no explicit reading time
// is supplied.
const wordsPerMinute = 200

// ValidationErrors maps form field names to human-readable problems. It is
// surfaced inline next to the offending fields and never reaches the store.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	var fields []string
	for f := range v {
		fields = append(fields, f)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// PostForm is the typed form state for a post being created or edited. Tags
// and Keywords hold the raw comma-separated input; Status is validated at
// construction.
type PostForm struct {
	Title           string
	Slug            string
	Excerpt         string
	Content         string
	FeaturedImage   string
	Category        string
	Tags            string
	Status          data.PostStatus
	AuthorName      string
	MetaTitle       string
	MetaDescription string
	Keywords        string
	ReadingTime     string
}

// ParseForm validates raw form input and returns a typed PostForm. Required
// fields are title, slug, excerpt, content, and category; an unknown status
// falls back to draft rather than failing.
func ParseForm(values map[string]string) (*PostForm, ValidationErrors) {
	form := &PostForm{
		Title:           strings.TrimSpace(values["title"]),
		Slug:            strings.TrimSpace(values["slug"]),
		Excerpt:         strings.TrimSpace(values["excerpt"]),
		Content:         values["content"],
		FeaturedImage:   strings.TrimSpace(values["featured_image"]),
		Category:        strings.TrimSpace(values["category"]),
		Tags:            values["tags"],
		Status:          data.PostStatus(values["status"]),
		AuthorName:      strings.TrimSpace(values["author_name"]),
		MetaTitle:       strings.TrimSpace(values["meta_title"]),
		MetaDescription: strings.TrimSpace(values["meta_description"]),
		Keywords:        values["keywords"],
		ReadingTime:     strings.TrimSpace(values["reading_time"]),
	}
	if !form.Status.Valid() {
		form.Status = data.StatusDraft
	}

	errs := ValidationErrors{}
	if form.Title == "" {
		errs["title"] = "Title is required"
	}
	if form.Slug == "" {
		errs["slug"] = "Slug is required"
	}
	if form.Excerpt == "" {
		errs["excerpt"] = "Excerpt is required"
	}
	if strings.TrimSpace(form.Content) == "" {
		errs["content"] = "Content is required"
	}
	if form.Category == "" {
		errs["category"] = "Category is required"
	}
	if form.ReadingTime != "" {
		if n, err := strconv.Atoi(form.ReadingTime); err != nil || n < 1 {
			errs["reading_time"] = "Reading time must be a whole number of minutes, 1 or more"
		}
	}
	if len(errs) > 0 {
		return form, errs
	}
	return form, nil
}

// FormFromPost loads an existing post verbatim into form state. Tag and
// keyword lists are joined with ", " for the comma-separated inputs.
func FormFromPost(post *data.Post) *PostForm {
	readingTime := ""
	if post.ReadingTime > 0 {
		readingTime = strconv.Itoa(post.ReadingTime)
	}
	return &PostForm{
		Title:           post.Title,
		Slug:            post.Slug,
		Excerpt:         post.Excerpt,
		Content:         post.Content,
		FeaturedImage:   post.FeaturedImage,
		Category:        post.Category,
		Tags:            JoinList(SplitList(post.RawTags)),
		Status:          post.Status,
		AuthorName:      post.AuthorName,
		MetaTitle:       post.MetaTitle,
		MetaDescription: post.MetaDescription,
		Keywords:        JoinList(SplitList(post.RawKeywords)),
		ReadingTime:     readingTime,
	}
}

// Slugify converts a title to its URL-safe slug: lower-cased, runs of
// non-alphanumerics collapsed to a single hyphen, leading and trailing
// hyphens trimmed. Applying it twice yields the same result.
func Slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// SplitList splits comma-separated input into trimmed entries, discarding
// empty pieces and preserving order.
func SplitList(s string) []string {
	var out []string
	for _, piece := range strings.Split(s, ",") {
		if p := strings.TrimSpace(piece); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList for loading a list back into a
// comma-separated field.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// stripPolicy removes every markup tag, leaving plain text for word counting.
var stripPolicy = bluemonday.StrictPolicy()

// ReadingTime estimates reading minutes for markup content: tags stripped,
// whitespace-delimited words counted, divided by the assumed reading speed
// and rounded up, never less than 1.
func ReadingTime(content string) int {
	text := strings.TrimSpace(stripPolicy.Sanitize(content))
	if text == "" {
		return 1
	}
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// PostService owns the save/publish/delete workflow for blog posts.
type PostService struct {
	repo  PostRepository
	cache *cache.Cache
	now   func() time.Time
}

// NewPostService creates a new PostService with the given repository.
func NewPostService(repo PostRepository, c *cache.Cache) *PostService {
	return &PostService{repo: repo, cache: c, now: time.Now}
}

// EditPost loads the post with the given id for editing; nil when it no
// longer exists.
func (s *PostService) EditPost(ctx context.Context, id string) (*data.Post, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post != nil {
		post.Tags = SplitList(post.RawTags)
		post.Keywords = SplitList(post.RawKeywords)
	}
	return post, nil
}

// ListAll returns every post for the admin dashboard, drafts included.
func (s *PostService) ListAll(ctx context.Context) ([]*data.Post, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		p.Tags = SplitList(p.RawTags)
	}
	return posts, nil
}

// Save persists the form as a new post (existingID empty) or as an update.
// The resulting status is published when publishNow is set or the form's
// status selector says so; published_at is set to now exactly when the
// resulting status is published — including on re-saves of an already
// published post, whose timestamp is refreshed rather than preserved — and
// is null for drafts. The write is a single insert or update; a duplicate
// slug surfaces as the store's constraint error and the caller keeps the
// form state for retry.
func (s *PostService) Save(ctx context.Context, form *PostForm, existingID string, publishNow bool) (*data.Post, error) {
	status := form.Status
	if publishNow {
		status = data.StatusPublished
	}

	readingTime := 0
	if form.ReadingTime != "" {
		// Validated by ParseForm; a parse failure here means Save was called
		// with an unparsed form, which is a programming error.
		n, err := strconv.Atoi(form.ReadingTime)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid reading time %q", form.ReadingTime)
		}
		readingTime = n
	} else {
		readingTime = ReadingTime(form.Content)
	}

	now := s.now()
	var publishedAt *time.Time
	if status == data.StatusPublished {
		publishedAt = &now
	}

	post := &data.Post{
		Title:           form.Title,
		Slug:            form.Slug,
		Excerpt:         form.Excerpt,
		Content:         form.Content,
		FeaturedImage:   form.FeaturedImage,
		Category:        form.Category,
		RawTags:         strings.Join(SplitList(form.Tags), ","),
		Tags:            SplitList(form.Tags),
		Status:          status,
		AuthorName:      form.AuthorName,
		PublishedAt:     publishedAt,
		UpdatedAt:       now,
		MetaTitle:       form.MetaTitle,
		MetaDescription: form.MetaDescription,
		RawKeywords:     strings.Join(SplitList(form.Keywords), ","),
		Keywords:        SplitList(form.Keywords),
		ReadingTime:     readingTime,
	}

	if existingID == "" {
		post.ID = uuid.NewString()
		post.CreatedAt = now
		if err := s.repo.CreatePost(ctx, post); err != nil {
			return nil, err
		}
	} else {
		existing, err := s.repo.GetPostByID(ctx, existingID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("no post found to update with id %s", existingID)
		}
		post.ID = existing.ID
		post.CreatedAt = existing.CreatedAt
		post.ViewCount = existing.ViewCount
		if err := s.repo.UpdatePost(ctx, post); err != nil {
			return nil, err
		}
		s.invalidate(existing.Slug)
	}
	s.invalidate(post.Slug)
	return post, nil
}

// Delete removes a post. Role enforcement happens at the routing layer; the
// explicit operator confirmation happens in the UI before this is reached.
func (s *PostService) Delete(ctx context.Context, id string) error {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}
	if post != nil {
		s.invalidate(post.Slug)
	}
	return nil
}

// TogglePublish flips a post between draft and published without the full
// editor. The published_at rule matches Save: set to now when the post
// becomes published, cleared when it becomes a draft.
func (s *PostService) TogglePublish(ctx context.Context, id string) (*data.Post, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("no post found with id %s", id)
	}

	now := s.now()
	if post.Status == data.StatusPublished {
		post.Status = data.StatusDraft
		post.PublishedAt = nil
	} else {
		post.Status = data.StatusPublished
		post.PublishedAt = &now
	}
	post.UpdatedAt = now

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	s.invalidate(post.Slug)
	return post, nil
}

func (s *PostService) invalidate(slug string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(publishedListCacheKey)
	_ = s.cache.Delete(postCacheKey(slug))
}
