package model

import (
	"strings"
	"time"
)

// BusinessProfileResponse represents the singleton business profile
type BusinessProfileResponse struct {
	ID                int64     `json:"id"`
	CompanyName       string    `json:"company_name"`
	OwnerName         *string   `json:"owner_name"`
	MobileNumber      *string   `json:"mobile_number"`
	GstNo             *string   `json:"gst_no"`
	Address           *string   `json:"address"`
	StateID           *int64    `json:"state_id"`
	CityID            *int64    `json:"city_id"`
	BusinessCategory  *string   `json:"business_category"`
	AccountNumber     *string   `json:"account_number"`
	AccountPersonName *string   `json:"account_person_name"`
	IfscCode          *string   `json:"ifsc_code"`
	BranchName        *string   `json:"branch_name"`
	LogoURL           *string   `json:"logo_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BusinessProfileRequest represents the upsert request body. The logo is
// uploaded through its own endpoint, not set here.
type BusinessProfileRequest struct {
	CompanyName       string  `json:"company_name"`
	OwnerName         *string `json:"owner_name"`
	MobileNumber      *string `json:"mobile_number"`
	GstNo             *string `json:"gst_no"`
	Address           *string `json:"address"`
	StateID           *int64  `json:"state_id"`
	CityID            *int64  `json:"city_id"`
	BusinessCategory  *string `json:"business_category"`
	AccountNumber     *string `json:"account_number"`
	AccountPersonName *string `json:"account_person_name"`
	IfscCode          *string `json:"ifsc_code"`
	BranchName        *string `json:"branch_name"`
}

// Validate checks the request and returns field errors
func (r *BusinessProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.CompanyName = strings.TrimSpace(r.CompanyName)

	if r.CompanyName == "" {
		errors["company_name"] = "company_name is required"
	} else if len(r.CompanyName) > 255 {
		errors["company_name"] = "company_name must be 255 characters or less"
	}

	if r.MobileNumber != nil && len(*r.MobileNumber) > 20 {
		errors["mobile_number"] = "mobile_number must be 20 characters or less"
	}

	if r.CityID != nil && r.StateID == nil {
		errors["city_id"] = "city_id requires a state_id"
	}

	return errors
}
