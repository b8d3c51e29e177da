package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bizmitra/backoffice-backend/internal/model"
)

// Transport is a transport carrier row. Code is the human-readable unique
// identifier (e.g. "TR4K7Q2M").
type Transport struct {
	ID           int64
	Code         string
	Name         string
	Address      sql.NullString
	MobileNumber sql.NullString
	GstNo        sql.NullString
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var transportColumns = []string{
	"id", "code", "name", "address", "mobile_number", "gst_no",
	"status", "created_at", "updated_at",
}

var transportListDef = ListDefinition{
	Table:         "transports",
	Columns:       transportColumns,
	SearchColumns: []string{"name", "code", "mobile_number", "gst_no"},
	Filters: map[string]FilterField{
		"status": {Column: "status", Strategy: FilterEquals},
	},
	DefaultOrder: "id ASC",
}

// TransportPage contains one page of transports and the total match count
type TransportPage struct {
	Items []Transport
	Total int64
}

func scanTransport(row interface{ Scan(...interface{}) error }, t *Transport) error {
	return row.Scan(
		&t.ID, &t.Code, &t.Name, &t.Address, &t.MobileNumber, &t.GstNo,
		&t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
}

// ListTransportsPaged retrieves transports filtered and paginated
func (q *Queries) ListTransportsPaged(ctx context.Context, filters model.FilterSpec, page int) (*TransportPage, error) {
	total, rows, err := q.runListQuery(ctx, transportListDef, filters, page)
	if err != nil {
		return nil, err
	}

	result := &TransportPage{Items: []Transport{}, Total: total}
	if rows == nil {
		return result, nil
	}
	defer rows.Close()

	for rows.Next() {
		var t Transport
		if err := scanTransport(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan transport row: %w", err)
		}
		result.Items = append(result.Items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transport rows: %w", err)
	}

	return result, nil
}

const getTransportByID = `
SELECT id, code, name, address, mobile_number, gst_no, status, created_at, updated_at
FROM transports WHERE id = $1
`

// GetTransportByID fetches one transport; sql.ErrNoRows when absent
func (q *Queries) GetTransportByID(ctx context.Context, id int64) (Transport, error) {
	var t Transport
	err := scanTransport(q.db.QueryRowContext(ctx, getTransportByID, id), &t)
	return t, err
}

const transportCodeExists = `
SELECT EXISTS(SELECT 1 FROM transports WHERE code = $1)
`

// TransportCodeExists reports whether a code is already taken
func (q *Queries) TransportCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, transportCodeExists, code).Scan(&exists)
	return exists, err
}

// TransportParams carries the writable transport fields
type TransportParams struct {
	Code         string
	Name         string
	Address      sql.NullString
	MobileNumber sql.NullString
	GstNo        sql.NullString
	Status       string
}

const createTransport = `
INSERT INTO transports (code, name, address, mobile_number, gst_no, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, code, name, address, mobile_number, gst_no, status, created_at, updated_at
`

// CreateTransport inserts a transport; the unique index on code surfaces
// duplicates as a pq unique violation
func (q *Queries) CreateTransport(ctx context.Context, params TransportParams) (Transport, error) {
	var t Transport
	err := scanTransport(q.db.QueryRowContext(ctx, createTransport,
		params.Code, params.Name, params.Address, params.MobileNumber,
		params.GstNo, params.Status,
	), &t)
	return t, err
}

const updateTransport = `
UPDATE transports
SET code = $2, name = $3, address = $4, mobile_number = $5, gst_no = $6,
    status = $7, updated_at = NOW()
WHERE id = $1
RETURNING id, code, name, address, mobile_number, gst_no, status, created_at, updated_at
`

// UpdateTransport replaces a transport's fields; sql.ErrNoRows when absent
func (q *Queries) UpdateTransport(ctx context.Context, id int64, params TransportParams) (Transport, error) {
	var t Transport
	err := scanTransport(q.db.QueryRowContext(ctx, updateTransport,
		id, params.Code, params.Name, params.Address, params.MobileNumber,
		params.GstNo, params.Status,
	), &t)
	return t, err
}

const deleteTransport = `
DELETE FROM transports WHERE id = $1
`

// DeleteTransport removes a transport; sql.ErrNoRows when the id does not exist
func (q *Queries) DeleteTransport(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, deleteTransport, id)
	if err != nil {
		return fmt.Errorf("failed to delete transport: %w", err)
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
