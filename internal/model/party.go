package model

import (
	"strings"
	"time"
)

// PartyResponse represents a party (customer/supplier) in API responses.
// StateName is joined in by the listing for display.
type PartyResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	GstNo             string    `json:"gst_no"`
	Address           string    `json:"address"`
	MobileNumber      string    `json:"mobile_number"`
	Email             *string   `json:"email"`
	StateID           *int64    `json:"state_id"`
	StateName         *string   `json:"state_name"`
	CityID            *int64    `json:"city_id"`
	PinCode           string    `json:"pin_code"`
	AccountNumber     string    `json:"account_number"`
	AccountPersonName string    `json:"account_person_name"`
	IfscCode          string    `json:"ifsc_code"`
	BranchName        string    `json:"branch_name"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PartyListData is the payload of the party listing endpoint
type PartyListData struct {
	Filters FilterSpec          `json:"filters"`
	Parties Page[PartyResponse] `json:"parties"`
}

// PartyRequest represents the request body for creating or updating a party
type PartyRequest struct {
	Name              string  `json:"name"`
	GstNo             string  `json:"gst_no"`
	Address           string  `json:"address"`
	MobileNumber      string  `json:"mobile_number"`
	Email             *string `json:"email"`
	StateID           *int64  `json:"state_id"`
	CityID            *int64  `json:"city_id"`
	PinCode           string  `json:"pin_code"`
	AccountNumber     string  `json:"account_number"`
	AccountPersonName string  `json:"account_person_name"`
	IfscCode          string  `json:"ifsc_code"`
	BranchName        string  `json:"branch_name"`
	Status            string  `json:"status"`
}

// Validate checks the request and returns field errors. The city-belongs-to-
// state check needs the database and lives in the handler.
func (r *PartyRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Name = strings.TrimSpace(r.Name)
	r.GstNo = strings.TrimSpace(r.GstNo)
	r.Address = strings.TrimSpace(r.Address)
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)

	requireString(errors, "name", r.Name, 255)
	capString(errors, "gst_no", r.GstNo, 255)
	capString(errors, "address", r.Address, 255)
	capString(errors, "pin_code", r.PinCode, 10)
	capString(errors, "account_number", r.AccountNumber, 255)
	capString(errors, "account_person_name", r.AccountPersonName, 255)
	capString(errors, "ifsc_code", r.IfscCode, 20)
	capString(errors, "branch_name", r.BranchName, 255)

	if r.MobileNumber == "" {
		errors["mobile_number"] = "mobile_number is required"
	} else if len(r.MobileNumber) > 20 {
		errors["mobile_number"] = "mobile_number must be 20 characters or less"
	}

	if r.Email != nil && *r.Email != "" && !isValidEmail(*r.Email) {
		errors["email"] = "invalid email format"
	}

	if r.CityID != nil && r.StateID == nil {
		errors["city_id"] = "city_id requires a state_id"
	}

	if _, ok := StatusOrDefault(r.Status); !ok {
		errors["status"] = "status must be active or inactive"
	}

	return errors
}

func requireString(errors map[string]string, field, value string, max int) {
	if value == "" {
		errors[field] = field + " is required"
	} else if len(value) > max {
		errors[field] = field + " is too long"
	}
}

func capString(errors map[string]string, field, value string, max int) {
	if len(value) > max {
		errors[field] = field + " is too long"
	}
}
