package data

import (
	"html/template"
	"time"
)

// PostStatus controls a post's visibility in public listings.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Valid reports whether s is one of the two known statuses.
func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Post represents a single blog post in the database. Tags and Keywords are
// persisted as comma-separated text; the slice fields are populated by the
// service layer.
type Post struct {
	ID              string        `db:"id"`
	Title           string        `db:"title"`
	Slug            string        `db:"slug"`
	Excerpt         string        `db:"excerpt"`
	Content         string        `db:"content"`
	HTMLContent     template.HTML `db:"-"`
	FeaturedImage   string        `db:"featured_image"`
	Category        string        `db:"category"`
	RawTags         string        `db:"tags"`
	Tags            []string      `db:"-"`
	Status          PostStatus    `db:"status"`
	AuthorName      string        `db:"author_name"`
	PublishedAt     *time.Time    `db:"published_at"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
	MetaTitle       string        `db:"meta_title"`
	MetaDescription string        `db:"meta_description"`
	RawKeywords     string        `db:"keywords"`
	Keywords        []string      `db:"-"`
	ReadingTime     int           `db:"reading_time"`
	ViewCount       int           `db:"view_count"`
}

// Category is a managed category for blog posts.
type Category struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
}

// Role controls which write actions a user may perform.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor || r == RoleViewer
}

// UserProfile is an account that can reach the admin area. PasswordHash is
// never rendered.
type UserProfile struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	FullName     string    `db:"full_name"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// ContactSubmission is one entry from the public contact form.
type ContactSubmission struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Service   string    `db:"service"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}
