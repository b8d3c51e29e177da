package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// BusinessProfile is the singleton business profile row
type BusinessProfile struct {
	ID                int64
	CompanyName       string
	OwnerName         sql.NullString
	MobileNumber      sql.NullString
	GstNo             sql.NullString
	Address           sql.NullString
	StateID           sql.NullInt64
	CityID            sql.NullInt64
	BusinessCategory  sql.NullString
	AccountNumber     sql.NullString
	AccountPersonName sql.NullString
	IfscCode          sql.NullString
	BranchName        sql.NullString
	LogoURL           sql.NullString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const businessProfileColumns = `
id, company_name, owner_name, mobile_number, gst_no, address, state_id,
city_id, business_category, account_number, account_person_name, ifsc_code,
branch_name, logo_url, created_at, updated_at
`

func scanBusinessProfile(row interface{ Scan(...interface{}) error }, p *BusinessProfile) error {
	return row.Scan(
		&p.ID, &p.CompanyName, &p.OwnerName, &p.MobileNumber, &p.GstNo,
		&p.Address, &p.StateID, &p.CityID, &p.BusinessCategory,
		&p.AccountNumber, &p.AccountPersonName, &p.IfscCode, &p.BranchName,
		&p.LogoURL, &p.CreatedAt, &p.UpdatedAt,
	)
}

const getBusinessProfile = `
SELECT ` + businessProfileColumns + `
FROM business_profiles WHERE deleted_at IS NULL ORDER BY id ASC LIMIT 1
`

// GetBusinessProfile fetches the first (and only) profile row;
// sql.ErrNoRows when none has been created yet
func (q *Queries) GetBusinessProfile(ctx context.Context) (BusinessProfile, error) {
	var p BusinessProfile
	err := scanBusinessProfile(q.db.QueryRowContext(ctx, getBusinessProfile), &p)
	return p, err
}

// BusinessProfileParams carries the writable profile fields (logo excluded;
// it has its own update path)
type BusinessProfileParams struct {
	CompanyName       string
	OwnerName         sql.NullString
	MobileNumber      sql.NullString
	GstNo             sql.NullString
	Address           sql.NullString
	StateID           sql.NullInt64
	CityID            sql.NullInt64
	BusinessCategory  sql.NullString
	AccountNumber     sql.NullString
	AccountPersonName sql.NullString
	IfscCode          sql.NullString
	BranchName        sql.NullString
}

const createBusinessProfile = `
INSERT INTO business_profiles (company_name, owner_name, mobile_number,
	gst_no, address, state_id, city_id, business_category, account_number,
	account_person_name, ifsc_code, branch_name)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + businessProfileColumns

const updateBusinessProfile = `
UPDATE business_profiles
SET company_name = $2, owner_name = $3, mobile_number = $4, gst_no = $5,
    address = $6, state_id = $7, city_id = $8, business_category = $9,
    account_number = $10, account_person_name = $11, ifsc_code = $12,
    branch_name = $13, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + businessProfileColumns

// UpsertBusinessProfile updates the existing profile row or creates the
// first one, mirroring first-or-create semantics
func (q *Queries) UpsertBusinessProfile(ctx context.Context, params BusinessProfileParams) (BusinessProfile, error) {
	existing, err := q.GetBusinessProfile(ctx)
	if err != nil && err != sql.ErrNoRows {
		return BusinessProfile{}, fmt.Errorf("failed to load business profile: %w", err)
	}

	var p BusinessProfile
	if err == sql.ErrNoRows {
		err = scanBusinessProfile(q.db.QueryRowContext(ctx, createBusinessProfile,
			params.CompanyName, params.OwnerName, params.MobileNumber,
			params.GstNo, params.Address, params.StateID, params.CityID,
			params.BusinessCategory, params.AccountNumber,
			params.AccountPersonName, params.IfscCode, params.BranchName,
		), &p)
	} else {
		err = scanBusinessProfile(q.db.QueryRowContext(ctx, updateBusinessProfile,
			existing.ID, params.CompanyName, params.OwnerName,
			params.MobileNumber, params.GstNo, params.Address,
			params.StateID, params.CityID, params.BusinessCategory,
			params.AccountNumber, params.AccountPersonName, params.IfscCode,
			params.BranchName,
		), &p)
	}
	return p, err
}

const updateBusinessProfileLogo = `
UPDATE business_profiles SET logo_url = $2, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`

// UpdateBusinessProfileLogo stores the uploaded logo URL;
// sql.ErrNoRows when the profile does not exist
func (q *Queries) UpdateBusinessProfileLogo(ctx context.Context, id int64, logoURL string) error {
	result, err := q.db.ExecContext(ctx, updateBusinessProfileLogo, id, logoURL)
	if err != nil {
		return fmt.Errorf("failed to update logo: %w", err)
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
