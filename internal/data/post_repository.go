package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLPostRepository is a concrete implementation of the PostRepository interface using sqlx.
type SQLPostRepository struct {
	db *sqlx.DB
}

// NewSQLPostRepository creates a new SQLPostRepository.
func NewSQLPostRepository(db *sqlx.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

const postColumns = `id, title, slug, excerpt, content, featured_image, category, tags, status,
	author_name, published_at, created_at, updated_at, meta_title, meta_description,
	keywords, reading_time, view_count`

// CreatePost inserts a new post into the database. The slug carries a UNIQUE
// constraint, so a collision surfaces here as a constraint error from the
// driver, not as a pre-checked condition.
func (r *SQLPostRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `INSERT INTO blog_posts (id, title, slug, excerpt, content, featured_image, category,
		tags, status, author_name, published_at, created_at, updated_at, meta_title,
		meta_description, keywords, reading_time, view_count)
		VALUES (:id, :title, :slug, :excerpt, :content, :featured_image, :category,
		:tags, :status, :author_name, :published_at, :created_at, :updated_at, :meta_title,
		:meta_description, :keywords, :reading_time, :view_count)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("failed to execute create post query: %w", err)
	}
	return nil
}

// GetPostByID retrieves a single post by its ID regardless of status.
func (r *SQLPostRepository) GetPostByID(ctx context.Context, id string) (*Post, error) {
	var post Post
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = ?`
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

// GetPublishedBySlug retrieves a single published post by its slug. A miss
// returns (nil, nil): the caller renders an absent state, not an error.
func (r *SQLPostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	var post Post
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = ? AND status = ?`
	if err := r.db.GetContext(ctx, &post, query, slug, StatusPublished); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}
	return &post, nil
}

// ListPublished retrieves all published posts ordered by publish time
// descending, with null timestamps sorting last.
func (r *SQLPostRepository) ListPublished(ctx context.Context) ([]*Post, error) {
	var posts []*Post
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE status = ?
		ORDER BY published_at IS NULL, published_at DESC`
	if err := r.db.SelectContext(ctx, &posts, query, StatusPublished); err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	return posts, nil
}

// ListAll retrieves every post, drafts included, newest first.
func (r *SQLPostRepository) ListAll(ctx context.Context) ([]*Post, error) {
	var posts []*Post
	query := `SELECT ` + postColumns + ` FROM blog_posts ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ListRelated retrieves up to limit published posts sharing a category,
// excluding the given post, ordered by publish time descending.
func (r *SQLPostRepository) ListRelated(ctx context.Context, category, excludeID string, limit int) ([]*Post, error) {
	var posts []*Post
	query := `SELECT ` + postColumns + ` FROM blog_posts
		WHERE category = ? AND status = ? AND id != ?
		ORDER BY published_at IS NULL, published_at DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &posts, query, category, StatusPublished, excludeID, limit); err != nil {
		return nil, fmt.Errorf("failed to list related posts: %w", err)
	}
	return posts, nil
}

// UpdatePost updates an existing post in the database.
func (r *SQLPostRepository) UpdatePost(ctx context.Context, post *Post) error {
	query := `UPDATE blog_posts SET title = :title, slug = :slug, excerpt = :excerpt,
		content = :content, featured_image = :featured_image, category = :category,
		tags = :tags, status = :status, author_name = :author_name,
		published_at = :published_at, updated_at = :updated_at, meta_title = :meta_title,
		meta_description = :meta_description, keywords = :keywords,
		reading_time = :reading_time WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no post found to update with id %s", post.ID)
	}
	return nil
}

// DeletePost removes a post by its ID. Deleting an id that no longer exists
// is a success no-op, so a double delete never breaks the caller's list.
func (r *SQLPostRepository) DeletePost(ctx context.Context, id string) error {
	query := `DELETE FROM blog_posts WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// IncrementViewCount bumps the view counter for a post.
func (r *SQLPostRepository) IncrementViewCount(ctx context.Context, id string) error {
	query := `UPDATE blog_posts SET view_count = view_count + 1 WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

// DistinctCategories returns the distinct categories among published posts,
// ordered alphabetically.
func (r *SQLPostRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	query := `SELECT DISTINCT category FROM blog_posts WHERE status = ? AND category != '' ORDER BY category`
	if err := r.db.SelectContext(ctx, &categories, query, StatusPublished); err != nil {
		return nil, fmt.Errorf("failed to list distinct categories: %w", err)
	}
	return categories, nil
}
