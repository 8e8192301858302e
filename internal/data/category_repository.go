package data

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for managed categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// GetAll retrieves all categories ordered by name.
func (r *CategoryRepository) GetAll() ([]*Category, error) {
	var categories []*Category
	err := r.DB.Select(&categories, "SELECT id, name, slug, description FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindBySlug finds a category by its slug.
func (r *CategoryRepository) FindBySlug(slug string) (*Category, error) {
	var category Category
	err := r.DB.Get(&category, "SELECT id, name, slug, description FROM categories WHERE slug = ?", slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found is not an error
		}
		return nil, err
	}
	return &category, nil
}

// SearchByName searches for categories by name substring.
func (r *CategoryRepository) SearchByName(query string) ([]*Category, error) {
	var categories []*Category
	err := r.DB.Select(&categories, "SELECT id, name, slug, description FROM categories WHERE name LIKE ? ORDER BY name", "%"+query+"%")
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates a new category.
func (r *CategoryRepository) Save(category *Category) error {
	_, err := r.DB.NamedExec("INSERT INTO categories (id, name, slug, description) VALUES (:id, :name, :slug, :description)", category)
	return err
}
