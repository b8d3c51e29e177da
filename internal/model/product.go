package model

import (
	"strconv"
	"strings"
	"time"
)

// ProductResponse represents a product in API responses. CategoryName is
// joined in by the listing so clients never fetch categories row by row.
type ProductResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Code         *string   `json:"code"`
	Unit         *string   `json:"unit"`
	Rate         *string   `json:"rate"`
	HsnCode      *string   `json:"hsn_code"`
	CategoryID   *int64    `json:"category_id"`
	CategoryName *string   `json:"category_name"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductListData is the payload of the product listing endpoint
type ProductListData struct {
	Filters  FilterSpec            `json:"filters"`
	Products Page[ProductResponse] `json:"products"`
}

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	Name       string  `json:"name"`
	Code       *string `json:"code"`
	Unit       *string `json:"unit"`
	Rate       *string `json:"rate"`
	HsnCode    *string `json:"hsn_code"`
	CategoryID *int64  `json:"category_id"`
	Status     string  `json:"status"`
}

// Validate checks the request and returns field errors
func (r *ProductRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Name = strings.TrimSpace(r.Name)

	if r.Name == "" {
		errors["name"] = "name is required"
	} else if len(r.Name) > 255 {
		errors["name"] = "name must be 255 characters or less"
	}

	if r.Code != nil && len(*r.Code) > 255 {
		errors["code"] = "code must be 255 characters or less"
	}

	if r.Rate != nil && *r.Rate != "" {
		if v, err := strconv.ParseFloat(*r.Rate, 64); err != nil || v < 0 {
			errors["rate"] = "rate must be a non-negative number"
		}
	}

	if r.CategoryID != nil && *r.CategoryID < 1 {
		errors["category_id"] = "category_id must be a positive id"
	}

	if _, ok := StatusOrDefault(r.Status); !ok {
		errors["status"] = "status must be active or inactive"
	}

	return errors
}
