package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bizmitra/backoffice-backend/internal/model"
)

// Category is a product category row
type Category struct {
	ID        int64
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

var categoryListDef = ListDefinition{
	Table:         "categories",
	Columns:       []string{"id", "name", "status", "created_at", "updated_at"},
	SearchColumns: []string{"name"},
	Filters: map[string]FilterField{
		"status": {Column: "status", Strategy: FilterEquals},
	},
	DefaultOrder: "id ASC",
}

// CategoryPage contains one page of categories and the total match count
type CategoryPage struct {
	Items []Category
	Total int64
}

// ListCategoriesPaged retrieves categories filtered and paginated
func (q *Queries) ListCategoriesPaged(ctx context.Context, filters model.FilterSpec, page int) (*CategoryPage, error) {
	total, rows, err := q.runListQuery(ctx, categoryListDef, filters, page)
	if err != nil {
		return nil, err
	}

	result := &CategoryPage{Items: []Category{}, Total: total}
	if rows == nil {
		return result, nil
	}
	defer rows.Close()

	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		result.Items = append(result.Items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return result, nil
}

const listCategories = `
SELECT id, name, status, created_at, updated_at FROM categories ORDER BY name ASC
`

// ListCategories returns every category, for form dropdowns
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const getCategoryByID = `
SELECT id, name, status, created_at, updated_at FROM categories WHERE id = $1
`

// GetCategoryByID fetches one category; sql.ErrNoRows when absent
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx, getCategoryByID, id).
		Scan(&c.ID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createCategory = `
INSERT INTO categories (name, status)
VALUES ($1, $2)
RETURNING id, name, status, created_at, updated_at
`

// CreateCategory inserts a category
func (q *Queries) CreateCategory(ctx context.Context, name string, status string) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx, createCategory, name, status).
		Scan(&c.ID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const updateCategory = `
UPDATE categories
SET name = $2, status = $3, updated_at = NOW()
WHERE id = $1
RETURNING id, name, status, created_at, updated_at
`

// UpdateCategory replaces a category's fields; sql.ErrNoRows when absent
func (q *Queries) UpdateCategory(ctx context.Context, id int64, name string, status string) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx, updateCategory, id, name, status).
		Scan(&c.ID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const deleteCategory = `
DELETE FROM categories WHERE id = $1
`

// DeleteCategory removes a category. Products referencing it cascade at the
// storage layer. Returns sql.ErrNoRows when the id does not exist.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, deleteCategory, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
