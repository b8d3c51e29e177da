package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bizmitra/backoffice-backend/internal/model"
)

// Party is a party (customer/supplier) row. StateName is joined in for
// display. Parties are soft-deleted; every read excludes deleted rows.
type Party struct {
	ID                int64
	Name              string
	GstNo             string
	Address           string
	MobileNumber      string
	Email             sql.NullString
	StateID           sql.NullInt64
	CityID            sql.NullInt64
	PinCode           string
	AccountNumber     string
	AccountPersonName string
	IfscCode          string
	BranchName        string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	StateName         sql.NullString
}

var partyColumns = []string{
	"parties.id", "parties.name", "parties.gst_no", "parties.address",
	"parties.mobile_number", "parties.email", "parties.state_id",
	"parties.city_id", "parties.pin_code", "parties.account_number",
	"parties.account_person_name", "parties.ifsc_code", "parties.branch_name",
	"parties.status", "parties.created_at", "parties.updated_at",
	"states.name",
}

var partyListDef = ListDefinition{
	Table:         "parties",
	Columns:       partyColumns,
	Joins:         []string{"states ON states.id = parties.state_id"},
	SearchColumns: []string{"parties.name", "parties.mobile_number", "parties.email", "parties.gst_no"},
	Filters: map[string]FilterField{
		"status":   {Column: "parties.status", Strategy: FilterEquals},
		"state_id": {Column: "parties.state_id", Strategy: FilterEquals},
	},
	DefaultOrder: "parties.id ASC",
	SoftDelete:   true,
}

// PartyPage contains one page of parties and the total match count
type PartyPage struct {
	Items []Party
	Total int64
}

func scanParty(row interface{ Scan(...interface{}) error }, p *Party) error {
	return row.Scan(
		&p.ID, &p.Name, &p.GstNo, &p.Address, &p.MobileNumber, &p.Email,
		&p.StateID, &p.CityID, &p.PinCode, &p.AccountNumber,
		&p.AccountPersonName, &p.IfscCode, &p.BranchName, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &p.StateName,
	)
}

// ListPartiesPaged retrieves parties filtered and paginated
func (q *Queries) ListPartiesPaged(ctx context.Context, filters model.FilterSpec, page int) (*PartyPage, error) {
	total, rows, err := q.runListQuery(ctx, partyListDef, filters, page)
	if err != nil {
		return nil, err
	}

	result := &PartyPage{Items: []Party{}, Total: total}
	if rows == nil {
		return result, nil
	}
	defer rows.Close()

	for rows.Next() {
		var p Party
		if err := scanParty(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		result.Items = append(result.Items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating party rows: %w", err)
	}

	return result, nil
}

const getPartyByID = `
SELECT parties.id, parties.name, parties.gst_no, parties.address,
       parties.mobile_number, parties.email, parties.state_id,
       parties.city_id, parties.pin_code, parties.account_number,
       parties.account_person_name, parties.ifsc_code, parties.branch_name,
       parties.status, parties.created_at, parties.updated_at,
       states.name
FROM parties
LEFT JOIN states ON states.id = parties.state_id
WHERE parties.id = $1 AND parties.deleted_at IS NULL
`

// GetPartyByID fetches one non-deleted party; sql.ErrNoRows when absent
func (q *Queries) GetPartyByID(ctx context.Context, id int64) (Party, error) {
	var p Party
	err := scanParty(q.db.QueryRowContext(ctx, getPartyByID, id), &p)
	return p, err
}

// PartyParams carries the writable party fields
type PartyParams struct {
	Name              string
	GstNo             string
	Address           string
	MobileNumber      string
	Email             sql.NullString
	StateID           sql.NullInt64
	CityID            sql.NullInt64
	PinCode           string
	AccountNumber     string
	AccountPersonName string
	IfscCode          string
	BranchName        string
	Status            string
}

const createParty = `
INSERT INTO parties (name, gst_no, address, mobile_number, email, state_id,
                     city_id, pin_code, account_number, account_person_name,
                     ifsc_code, branch_name, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id
`

// CreateParty inserts a party and returns the full row
func (q *Queries) CreateParty(ctx context.Context, params PartyParams) (Party, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createParty,
		params.Name, params.GstNo, params.Address, params.MobileNumber,
		params.Email, params.StateID, params.CityID, params.PinCode,
		params.AccountNumber, params.AccountPersonName, params.IfscCode,
		params.BranchName, params.Status,
	).Scan(&id)
	if err != nil {
		return Party{}, err
	}
	return q.GetPartyByID(ctx, id)
}

const updateParty = `
UPDATE parties
SET name = $2, gst_no = $3, address = $4, mobile_number = $5, email = $6,
    state_id = $7, city_id = $8, pin_code = $9, account_number = $10,
    account_person_name = $11, ifsc_code = $12, branch_name = $13,
    status = $14, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
RETURNING id
`

// UpdateParty replaces a party's fields; sql.ErrNoRows when absent or deleted
func (q *Queries) UpdateParty(ctx context.Context, id int64, params PartyParams) (Party, error) {
	var updatedID int64
	err := q.db.QueryRowContext(ctx, updateParty,
		id, params.Name, params.GstNo, params.Address, params.MobileNumber,
		params.Email, params.StateID, params.CityID, params.PinCode,
		params.AccountNumber, params.AccountPersonName, params.IfscCode,
		params.BranchName, params.Status,
	).Scan(&updatedID)
	if err != nil {
		return Party{}, err
	}
	return q.GetPartyByID(ctx, updatedID)
}

const deleteParty = `
UPDATE parties SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL
`

// DeleteParty soft-deletes a party. The row stays in storage but is excluded
// from every subsequent read. Returns sql.ErrNoRows when the id does not
// exist or was already deleted.
func (q *Queries) DeleteParty(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, deleteParty, id)
	if err != nil {
		return fmt.Errorf("failed to delete party: %w", err)
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
