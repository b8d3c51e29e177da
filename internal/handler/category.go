package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bizmitra/backoffice-backend/internal/model"
	"github.com/bizmitra/backoffice-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	queries *repository.Queries
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(queries *repository.Queries) *CategoryHandler {
	return &CategoryHandler{queries: queries}
}

var categoryFilterRules = FilterRules{
	"search": FilterText,
	"status": FilterStatus,
}

func categoryResponse(c repository.Category) model.CategoryResponse {
	return model.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Status:    model.Status(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// List returns the filtered, paginated category listing along with the
// filters that produced it
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, page := listRequest(r, categoryFilterRules)

	result, err := h.queries.ListCategoriesPaged(r.Context(), filters, page)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch categories", nil)
		return
	}

	items := make([]model.CategoryResponse, len(result.Items))
	for i, c := range result.Items {
		items[i] = categoryResponse(c)
	}

	respondSuccess(w, http.StatusOK, "Categories retrieved successfully", model.CategoryListData{
		Filters: filters,
		Categories: model.Page[model.CategoryResponse]{
			Items:      items,
			Pagination: model.NewPageMeta(page, result.Total),
		},
	})
}

// ListAll returns every category, for form dropdowns
func (h *CategoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch categories", nil)
		return
	}

	items := make([]model.CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = categoryResponse(c)
	}

	respondSuccess(w, http.StatusOK, "Categories retrieved successfully", items)
}

// GetByID returns one category
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid category ID", nil)
		return
	}

	category, err := h.queries.GetCategoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Category not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch category", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Category retrieved successfully", categoryResponse(category))
}

// Create adds a category
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	status, _ := model.StatusOrDefault(req.Status)
	category, err := h.queries.CreateCategory(r.Context(), req.Name, string(status))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create category", nil)
		return
	}

	respondSuccess(w, http.StatusCreated, "Category created successfully", categoryResponse(category))
}

// Update replaces a category's fields
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid category ID", nil)
		return
	}

	var req model.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	status, _ := model.StatusOrDefault(req.Status)
	category, err := h.queries.UpdateCategory(r.Context(), id, req.Name, string(status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Category not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update category", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Category updated successfully", categoryResponse(category))
}

// Delete removes a category; its products cascade at the storage layer
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid category ID", nil)
		return
	}

	if err := h.queries.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Category not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete category", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Category deleted successfully", nil)
}
