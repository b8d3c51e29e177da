package model

import (
	"strings"
	"time"
)

// TransportResponse represents a transport carrier in API responses
type TransportResponse struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Address      *string   `json:"address"`
	MobileNumber *string   `json:"mobile_number"`
	GstNo        *string   `json:"gst_no"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TransportListData is the payload of the transport listing endpoint
type TransportListData struct {
	Filters    FilterSpec              `json:"filters"`
	Transports Page[TransportResponse] `json:"transports"`
}

// NextTransportCode is the payload of the code-allocation endpoint
type NextTransportCode struct {
	Code string `json:"code"`
}

// TransportRequest represents the request body for creating or updating a transport
type TransportRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Address      *string `json:"address"`
	MobileNumber *string `json:"mobile_number"`
	GstNo        *string `json:"gst_no"`
	Status       string  `json:"status"`
}

// Validate checks the request and returns field errors. Code uniqueness is
// enforced by the database constraint.
func (r *TransportRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.Name = strings.TrimSpace(r.Name)

	requireString(errors, "code", r.Code, 255)
	requireString(errors, "name", r.Name, 255)

	if r.MobileNumber != nil && len(*r.MobileNumber) > 20 {
		errors["mobile_number"] = "mobile_number must be 20 characters or less"
	}

	if r.GstNo != nil && len(*r.GstNo) > 20 {
		errors["gst_no"] = "gst_no must be 20 characters or less"
	}

	if _, ok := StatusOrDefault(r.Status); !ok {
		errors["status"] = "status must be active or inactive"
	}

	return errors
}
