package service

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"go-agency-site/internal/cache"
	"go-agency-site/internal/data"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

const (
	publishedListCacheKey = "blog:published"
	cacheTTL              = time.Minute
	relatedPostLimit      = 3

	// CategoryAll is the sentinel meaning "no category filter".
	CategoryAll = "all"
)

// markdown renders post bodies. WithUnsafe passes raw HTML through, so
// HTML-authored content renders verbatim while Markdown still works.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(),
	),
)

// PostMeta carries a post's discoverability metadata into the <head>
// template, with SEO-specific fields falling back to the display ones.
type PostMeta struct {
	Title       string
	Description string
	Image       string
	Keywords    string
}

// MetaForPost derives head metadata for a post. It is a pure function of
// the post, so re-deriving it yields identical tag values.
func MetaForPost(post *data.Post) PostMeta {
	meta := PostMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		Image:       post.FeaturedImage,
		Keywords:    JoinList(post.Keywords),
	}
	if post.MetaTitle != "" {
		meta.Title = post.MetaTitle
	}
	if post.MetaDescription != "" {
		meta.Description = post.MetaDescription
	}
	return meta
}

// BlogService is the read path for the public blog.
type BlogService struct {
	repo  PostRepository
	cache *cache.Cache
}

// NewBlogService creates a new BlogService.
func NewBlogService(repo PostRepository, c *cache.Cache) *BlogService {
	return &BlogService{repo: repo, cache: c}
}

// ListPublished returns published posts filtered by category and search
// query. The two filters compose with AND: an exact category match (the
// "all" sentinel, any casing, disables it) and a case-insensitive substring
// match against title and excerpt.
func (s *BlogService) ListPublished(ctx context.Context, category, search string) ([]*data.Post, error) {
	posts, err := s.fetchPublished(ctx)
	if err != nil {
		return nil, err
	}

	filterCategory := !strings.EqualFold(category, CategoryAll) && category != ""
	search = strings.ToLower(strings.TrimSpace(search))

	var out []*data.Post
	for _, p := range posts {
		if filterCategory && p.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Excerpt), search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// CategoryOptions returns the distinct categories among published posts,
// prefixed with the "all" sentinel.
func (s *BlogService) CategoryOptions(ctx context.Context) ([]string, error) {
	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{CategoryAll}, categories...), nil
}

// GetBySlug returns the published post with the given slug, its body
// rendered, or nil when no such post exists — a normal outcome, not an
// error. The view counter is bumped on a hit.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*data.Post, error) {
	if cached := s.cachedPost(slug); cached != nil {
		_ = s.repo.IncrementViewCount(ctx, cached.ID)
		return cached, nil
	}

	post, err := s.repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}
	hydrate(post)
	s.cachePost(slug, post)
	_ = s.repo.IncrementViewCount(ctx, post.ID)
	return post, nil
}

// Related returns up to three other published posts in the same category,
// newest first.
func (s *BlogService) Related(ctx context.Context, post *data.Post) ([]*data.Post, error) {
	related, err := s.repo.ListRelated(ctx, post.Category, post.ID, relatedPostLimit)
	if err != nil {
		return nil, err
	}
	for _, p := range related {
		p.Tags = SplitList(p.RawTags)
	}
	return related, nil
}

// RenderContent converts a post body to HTML. On a conversion error the raw
// content is returned so the page still renders.
func RenderContent(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return template.HTML(content)
	}
	return template.HTML(buf.String())
}

func hydrate(post *data.Post) {
	post.Tags = SplitList(post.RawTags)
	post.Keywords = SplitList(post.RawKeywords)
	post.HTMLContent = RenderContent(post.Content)
}

func (s *BlogService) fetchPublished(ctx context.Context) ([]*data.Post, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(publishedListCacheKey); err == nil && raw != nil {
			var posts []*data.Post
			if err := json.Unmarshal(raw, &posts); err == nil {
				return posts, nil
			}
		}
	}

	posts, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		p.Tags = SplitList(p.RawTags)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(posts); err == nil {
			_ = s.cache.Set(publishedListCacheKey, raw, cacheTTL)
		}
	}
	return posts, nil
}

func postCacheKey(slug string) string {
	return "blog:post:" + slug
}

func (s *BlogService) cachedPost(slug string) *data.Post {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(postCacheKey(slug))
	if err != nil || raw == nil {
		return nil
	}
	var post data.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil
	}
	return &post
}

func (s *BlogService) cachePost(slug string, post *data.Post) {
	if s.cache == nil {
		return
	}
	if raw, err := json.Marshal(post); err == nil {
		_ = s.cache.Set(postCacheKey(slug), raw, cacheTTL)
	}
}
