package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bizmitra/backoffice-backend/internal/model"
	"github.com/bizmitra/backoffice-backend/internal/repository"
	"github.com/bizmitra/backoffice-backend/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique-constraint failures
const uniqueViolation = "23505"

// codeAllocationAttempts bounds the retry loop for generating a free code
const codeAllocationAttempts = 5

// TransportHandler handles transport carrier requests
type TransportHandler struct {
	queries *repository.Queries
}

// NewTransportHandler creates a new TransportHandler
func NewTransportHandler(queries *repository.Queries) *TransportHandler {
	return &TransportHandler{queries: queries}
}

var transportFilterRules = FilterRules{
	"search": FilterText,
	"status": FilterStatus,
}

func transportResponse(t repository.Transport) model.TransportResponse {
	return model.TransportResponse{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		Address:      repository.NullStringToPtr(t.Address),
		MobileNumber: repository.NullStringToPtr(t.MobileNumber),
		GstNo:        repository.NullStringToPtr(t.GstNo),
		Status:       model.Status(t.Status),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func transportParams(req *model.TransportRequest) repository.TransportParams {
	status, _ := model.StatusOrDefault(req.Status)
	return repository.TransportParams{
		Code:         req.Code,
		Name:         req.Name,
		Address:      ptrToNullString(req.Address),
		MobileNumber: ptrToNullString(req.MobileNumber),
		GstNo:        ptrToNullString(req.GstNo),
		Status:       string(status),
	}
}

// List returns the filtered, paginated transport listing
func (h *TransportHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, page := listRequest(r, transportFilterRules)

	result, err := h.queries.ListTransportsPaged(r.Context(), filters, page)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch transports", nil)
		return
	}

	items := make([]model.TransportResponse, len(result.Items))
	for i, t := range result.Items {
		items[i] = transportResponse(t)
	}

	respondSuccess(w, http.StatusOK, "Transports retrieved successfully", model.TransportListData{
		Filters: filters,
		Transports: model.Page[model.TransportResponse]{
			Items:      items,
			Pagination: model.NewPageMeta(page, result.Total),
		},
	})
}

// NextCode allocates a fresh transport code. Codes are random, not
// sequential, so two operators creating transports at once cannot collide
// on the same "next" value.
func (h *TransportHandler) NextCode(w http.ResponseWriter, r *http.Request) {
	for attempt := 0; attempt < codeAllocationAttempts; attempt++ {
		code := util.GenerateTransportCode()
		taken, err := h.queries.TransportCodeExists(r.Context(), code)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to allocate code", nil)
			return
		}
		if !taken {
			respondSuccess(w, http.StatusOK, "Code allocated successfully",
				model.NextTransportCode{Code: code})
			return
		}
	}
	respondError(w, http.StatusInternalServerError, "Failed to allocate code", nil)
}

// GetByID returns one transport
func (h *TransportHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid transport ID", nil)
		return
	}

	transport, err := h.queries.GetTransportByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Transport not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch transport", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Transport retrieved successfully", transportResponse(transport))
}

// Create adds a transport
func (h *TransportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TransportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	transport, err := h.queries.CreateTransport(r.Context(), transportParams(&req))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			respondError(w, http.StatusConflict, "Transport code already in use",
				map[string]string{"code": "code must be unique"})
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create transport", nil)
		return
	}

	respondSuccess(w, http.StatusCreated, "Transport created successfully", transportResponse(transport))
}

// Update replaces a transport's fields
func (h *TransportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid transport ID", nil)
		return
	}

	var req model.TransportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	transport, err := h.queries.UpdateTransport(r.Context(), id, transportParams(&req))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Transport not found", nil)
			return
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			respondError(w, http.StatusConflict, "Transport code already in use",
				map[string]string{"code": "code must be unique"})
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update transport", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Transport updated successfully", transportResponse(transport))
}

// Delete removes a transport
func (h *TransportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid transport ID", nil)
		return
	}

	if err := h.queries.DeleteTransport(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Transport not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete transport", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Transport deleted successfully", nil)
}
