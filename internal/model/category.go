package model

import (
	"strings"
	"time"
)

// CategoryResponse represents a product category in API responses
type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryListData is the payload of the category listing endpoint
type CategoryListData struct {
	Filters    FilterSpec             `json:"filters"`
	Categories Page[CategoryResponse] `json:"categories"`
}

// CategoryRequest represents the request body for creating or updating a category
type CategoryRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Validate checks the request and returns field errors
func (r *CategoryRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Name = strings.TrimSpace(r.Name)

	if r.Name == "" {
		errors["name"] = "name is required"
	} else if len(r.Name) > 255 {
		errors["name"] = "name must be 255 characters or less"
	}

	if _, ok := StatusOrDefault(r.Status); !ok {
		errors["status"] = "status must be active or inactive"
	}

	return errors
}
