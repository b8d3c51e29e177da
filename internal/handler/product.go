package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bizmitra/backoffice-backend/internal/model"
	"github.com/bizmitra/backoffice-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

// foreignKeyViolation is the PostgreSQL error code for FK failures
const foreignKeyViolation = "23503"

// ProductHandler handles product requests
type ProductHandler struct {
	queries *repository.Queries
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(queries *repository.Queries) *ProductHandler {
	return &ProductHandler{queries: queries}
}

var productFilterRules = FilterRules{
	"search":      FilterText,
	"status":      FilterStatus,
	"category_id": FilterID,
}

func productResponse(p repository.Product) model.ProductResponse {
	return model.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Code:         repository.NullStringToPtr(p.Code),
		Unit:         repository.NullStringToPtr(p.Unit),
		Rate:         repository.NullStringToPtr(p.Rate),
		HsnCode:      repository.NullStringToPtr(p.HsnCode),
		CategoryID:   repository.NullInt64ToPtr(p.CategoryID),
		CategoryName: repository.NullStringToPtr(p.CategoryName),
		Status:       model.Status(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func productParams(req *model.ProductRequest) repository.ProductParams {
	status, _ := model.StatusOrDefault(req.Status)
	return repository.ProductParams{
		Name:       req.Name,
		Code:       ptrToNullString(req.Code),
		Unit:       ptrToNullString(req.Unit),
		Rate:       ptrToNullString(req.Rate),
		HsnCode:    ptrToNullString(req.HsnCode),
		CategoryID: ptrToNullInt64(req.CategoryID),
		Status:     string(status),
	}
}

// List returns the filtered, paginated product listing. Category names ride
// along from the join; clients never fetch them separately.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, page := listRequest(r, productFilterRules)

	result, err := h.queries.ListProductsPaged(r.Context(), filters, page)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch products", nil)
		return
	}

	items := make([]model.ProductResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = productResponse(p)
	}

	respondSuccess(w, http.StatusOK, "Products retrieved successfully", model.ProductListData{
		Filters: filters,
		Products: model.Page[model.ProductResponse]{
			Items:      items,
			Pagination: model.NewPageMeta(page, result.Total),
		},
	})
}

// GetByID returns one product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	product, err := h.queries.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Product not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch product", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Product retrieved successfully", productResponse(product))
}

// validateCategoryRef rejects category ids that do not reference an existing
// category. Returns false after writing the response when invalid.
func (h *ProductHandler) validateCategoryRef(w http.ResponseWriter, r *http.Request, categoryID *int64) bool {
	if categoryID == nil {
		return true
	}
	_, err := h.queries.GetCategoryByID(r.Context(), *categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusBadRequest, "Validation failed",
				map[string]string{"category_id": "category does not exist"})
			return false
		}
		respondError(w, http.StatusInternalServerError, "Failed to validate category", nil)
		return false
	}
	return true
}

// Create adds a product
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	if !h.validateCategoryRef(w, r, req.CategoryID) {
		return
	}

	product, err := h.queries.CreateProduct(r.Context(), productParams(&req))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			respondError(w, http.StatusBadRequest, "Validation failed",
				map[string]string{"category_id": "category does not exist"})
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create product", nil)
		return
	}

	respondSuccess(w, http.StatusCreated, "Product created successfully", productResponse(product))
}

// Update replaces a product's fields
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	var req model.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	if !h.validateCategoryRef(w, r, req.CategoryID) {
		return
	}

	product, err := h.queries.UpdateProduct(r.Context(), id, productParams(&req))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Product not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update product", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Product updated successfully", productResponse(product))
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	if err := h.queries.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Product not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete product", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Product deleted successfully", nil)
}

// ptrToNullString converts *string to sql.NullString, treating empty as NULL
func ptrToNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// ptrToNullInt64 converts *int64 to sql.NullInt64
func ptrToNullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
