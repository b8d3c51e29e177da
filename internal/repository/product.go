package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bizmitra/backoffice-backend/internal/model"
)

// Product is a product row. CategoryName is joined in for display so
// listings never fetch categories row by row.
type Product struct {
	ID           int64
	Name         string
	Code         sql.NullString
	Unit         sql.NullString
	Rate         sql.NullString
	HsnCode      sql.NullString
	CategoryID   sql.NullInt64
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CategoryName sql.NullString
}

var productColumns = []string{
	"products.id", "products.name", "products.code", "products.unit",
	"products.rate", "products.hsn_code", "products.category_id",
	"products.status", "products.created_at", "products.updated_at",
	"categories.name",
}

var productListDef = ListDefinition{
	Table:         "products",
	Columns:       productColumns,
	Joins:         []string{"categories ON categories.id = products.category_id"},
	SearchColumns: []string{"products.name", "products.code", "products.hsn_code"},
	Filters: map[string]FilterField{
		"status":      {Column: "products.status", Strategy: FilterEquals},
		"category_id": {Column: "products.category_id", Strategy: FilterEquals},
	},
	DefaultOrder: "products.id ASC",
}

// ProductPage contains one page of products and the total match count
type ProductPage struct {
	Items []Product
	Total int64
}

func scanProduct(rows interface{ Scan(...interface{}) error }, p *Product) error {
	return rows.Scan(
		&p.ID, &p.Name, &p.Code, &p.Unit, &p.Rate, &p.HsnCode,
		&p.CategoryID, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
	)
}

// ListProductsPaged retrieves products filtered and paginated
func (q *Queries) ListProductsPaged(ctx context.Context, filters model.FilterSpec, page int) (*ProductPage, error) {
	total, rows, err := q.runListQuery(ctx, productListDef, filters, page)
	if err != nil {
		return nil, err
	}

	result := &ProductPage{Items: []Product{}, Total: total}
	if rows == nil {
		return result, nil
	}
	defer rows.Close()

	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		result.Items = append(result.Items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	return result, nil
}

const getProductByID = `
SELECT products.id, products.name, products.code, products.unit,
       products.rate, products.hsn_code, products.category_id,
       products.status, products.created_at, products.updated_at,
       categories.name
FROM products
LEFT JOIN categories ON categories.id = products.category_id
WHERE products.id = $1
`

// GetProductByID fetches one product with its category name; sql.ErrNoRows when absent
func (q *Queries) GetProductByID(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := scanProduct(q.db.QueryRowContext(ctx, getProductByID, id), &p)
	return p, err
}

// ProductParams carries the writable product fields
type ProductParams struct {
	Name       string
	Code       sql.NullString
	Unit       sql.NullString
	Rate       sql.NullString
	HsnCode    sql.NullString
	CategoryID sql.NullInt64
	Status     string
}

const createProduct = `
INSERT INTO products (name, code, unit, rate, hsn_code, category_id, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`

// CreateProduct inserts a product and returns the full row
func (q *Queries) CreateProduct(ctx context.Context, params ProductParams) (Product, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createProduct,
		params.Name, params.Code, params.Unit, params.Rate,
		params.HsnCode, params.CategoryID, params.Status,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	return q.GetProductByID(ctx, id)
}

const updateProduct = `
UPDATE products
SET name = $2, code = $3, unit = $4, rate = $5, hsn_code = $6,
    category_id = $7, status = $8, updated_at = NOW()
WHERE id = $1
RETURNING id
`

// UpdateProduct replaces a product's fields; sql.ErrNoRows when absent
func (q *Queries) UpdateProduct(ctx context.Context, id int64, params ProductParams) (Product, error) {
	var updatedID int64
	err := q.db.QueryRowContext(ctx, updateProduct,
		id, params.Name, params.Code, params.Unit, params.Rate,
		params.HsnCode, params.CategoryID, params.Status,
	).Scan(&updatedID)
	if err != nil {
		return Product{}, err
	}
	return q.GetProductByID(ctx, updatedID)
}

const deleteProduct = `
DELETE FROM products WHERE id = $1
`

// DeleteProduct removes a product; sql.ErrNoRows when the id does not exist
func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, deleteProduct, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
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
