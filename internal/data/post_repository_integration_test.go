//go:build integration

package data

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// setupPostTest creates a new in-memory SQLite database with the full schema
// and returns a PostRepository with a teardown function to be deferred.
func setupPostTest(t *testing.T) (*SQLPostRepository, func()) {
	t.Helper()

	// Use a non-shared in-memory database for complete test isolation.
	db, err := sqlx.Connect("sqlite3", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}

	schema, err := os.ReadFile("../../migrations/000001_initial_schema.up.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	db.MustExec(string(schema))

	repo := NewSQLPostRepository(db)
	teardown := func() {
		db.Close()
	}
	return repo, teardown
}

func testPost(id, slug string, status PostStatus, publishedAt *time.Time) *Post {
	now := time.Now()
	return &Post{
		ID:          id,
		Title:       "Title " + id,
		Slug:        slug,
		Excerpt:     "Excerpt",
		Content:     "Content",
		Category:    "SEO",
		Status:      status,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
		ReadingTime: 1,
	}
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	repo, teardown := setupPostTest(t)
	defer teardown()
	ctx := context.Background()

	now := time.Now()
	post := testPost("p1", "hello-world", StatusPublished, &now)
	post.RawTags = "seo,tips"
	if err := repo.CreatePost(ctx, post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetPostByID(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Slug != "hello-world" || got.RawTags != "seo,tips" {
		t.Errorf("got %+v", got)
	}

	missing, err := repo.GetPostByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("missing id should be (nil, nil), got %v, %v", missing, err)
	}
}

func TestPostRepository_DuplicateSlug(t *testing.T) {
	repo, teardown := setupPostTest(t)
	defer teardown()
	ctx := context.Background()

	if err := repo.CreatePost(ctx, testPost("p1", "same", StatusDraft, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.CreatePost(ctx, testPost("p2", "same", StatusDraft, nil)); err == nil {
		t.Error("expected a UNIQUE constraint error for the duplicate slug")
	}
}

func TestPostRepository_GetPublishedBySlug(t *testing.T) {
	repo, teardown := setupPostTest(t)
	defer teardown()
	ctx := context.Background()

	now := time.Now()
	repo.CreatePost(ctx, testPost("p1", "live", StatusPublished, &now))
	repo.CreatePost(ctx, testPost("p2", "hidden", StatusDraft, nil))

	got, err := repo.GetPublishedBySlug(ctx, "live")
	if err != nil || got == nil {
		t.Fatalf("want post, got %v, %v", got, err)
	}

	// Drafts are invisible on the public read path.
	draft, err := repo.GetPublishedBySlug(ctx, "hidden")
	if err != nil || draft != nil {
		t.Errorf("draft slug should be (nil, nil), got %v, %v", draft, err)
	}
}

func TestPostRepository_ListPublished_Ordering(t *testing.T) {
	repo, teardown := setupPostTest(t)
	defer teardown()
	ctx := context.Background()

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now()
	repo.CreatePost(ctx, testPost("p1", "older", StatusPublished, &older))
	repo.CreatePost(ctx, testPost("p2", "newer", StatusPublished, &newer))
	repo.CreatePost(ctx, testPost("p3", "draft", StatusDraft, nil))

	posts, err := repo.ListPublished(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].Slug != "newer" || posts[1].Slug != "older" {
		t.Errorf("wrong order: %s, %s", posts[0].Slug, posts[1].Slug)
	}
}

func TestPostRepository_ListRelated(t *testing.T) {
	repo, teardown := setupPostTest(t)
	defer teardown()
	ctx := context.Background()

	now := time.Now()
	for _, id := range []string{"a", "b", "c", "d"} {
		repo.CreatePost(ctx, testPost(id, "post-"+id, StatusPublished, &now))
	}
	other := testPost("e", "post-e", StatusPublished, &now)
	other.Category = "Advertising"
	repo.CreatePost(ctx, other)

	related, err := repo.ListRelated(ctx, "SEO", "a", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(related) != 3 {
		t.Fatalf("got %d related, want 3", len(related))
	}
	for _, p := range related {
		if p.ID == "a" {
			t.Error("related must exclude the current post")
		}
		if p.Category != "SEO" {
			t.Errorf("wrong category %q", p.Category)
		}
	}
}

func TestPostRepository_UpdatePost(t *testing.T) {
	repo, teardown := setupPostTest(t)
	defer teardown()
	ctx := context.Background()

	post := testPost("p1", "first", StatusDraft, nil)
	repo.CreatePost(ctx, post)

	post.Title = "Updated"
	post.Slug = "second"
	if err := repo.UpdatePost(ctx, post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetPostByID(ctx, "p1")
	if got.Title != "Updated" || got.Slug != "second" {
		t.Errorf("update not applied: %+v", got)
	}

	ghost := testPost("ghost", "ghost", StatusDraft, nil)
	if err := repo.UpdatePost(ctx, ghost); err == nil {
		t.Error("updating a missing post should error")
	}
}

func TestPostRepository_DeleteIsIdempotent(t *testing.T) {
	repo, teardown := setupPostTest(t)
	defer teardown()
	ctx := context.Background()

	repo.CreatePost(ctx, testPost("p1", "gone", StatusDraft, nil))
	if err := repo.DeletePost(ctx, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second delete of the same id is a success no-op.
	if err := repo.DeletePost(ctx, "p1"); err != nil {
		t.Errorf("second delete should succeed, got %v", err)
	}
}

func TestPostRepository_IncrementViewCount(t *testing.T) {
	repo, teardown := setupPostTest(t)
	defer teardown()
	ctx := context.Background()

	now := time.Now()
	repo.CreatePost(ctx, testPost("p1", "counted", StatusPublished, &now))
	for i := 0; i < 3; i++ {
		if err := repo.IncrementViewCount(ctx, "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got, _ := repo.GetPostByID(ctx, "p1")
	if got.ViewCount != 3 {
		t.Errorf("view_count = %d, want 3", got.ViewCount)
	}
}

func TestPostRepository_DistinctCategories(t *testing.T) {
	repo, teardown := setupPostTest(t)
	defer teardown()
	ctx := context.Background()

	now := time.Now()
	repo.CreatePost(ctx, testPost("a", "a", StatusPublished, &now))
	repo.CreatePost(ctx, testPost("b", "b", StatusPublished, &now))
	draft := testPost("c", "c", StatusDraft, nil)
	draft.Category = "DraftOnly"
	repo.CreatePost(ctx, draft)

	categories, err := repo.DistinctCategories(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || categories[0] != "SEO" {
		t.Errorf("categories = %v, want [SEO]", categories)
	}
}
