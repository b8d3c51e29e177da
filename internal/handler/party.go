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

// PartyHandler handles party requests
type PartyHandler struct {
	queries *repository.Queries
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(queries *repository.Queries) *PartyHandler {
	return &PartyHandler{queries: queries}
}

var partyFilterRules = FilterRules{
	"search":   FilterText,
	"status":   FilterStatus,
	"state_id": FilterID,
}

func partyResponse(p repository.Party) model.PartyResponse {
	return model.PartyResponse{
		ID:                p.ID,
		Name:              p.Name,
		GstNo:             p.GstNo,
		Address:           p.Address,
		MobileNumber:      p.MobileNumber,
		Email:             repository.NullStringToPtr(p.Email),
		StateID:           repository.NullInt64ToPtr(p.StateID),
		StateName:         repository.NullStringToPtr(p.StateName),
		CityID:            repository.NullInt64ToPtr(p.CityID),
		PinCode:           p.PinCode,
		AccountNumber:     p.AccountNumber,
		AccountPersonName: p.AccountPersonName,
		IfscCode:          p.IfscCode,
		BranchName:        p.BranchName,
		Status:            model.Status(p.Status),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func partyParams(req *model.PartyRequest) repository.PartyParams {
	status, _ := model.StatusOrDefault(req.Status)
	return repository.PartyParams{
		Name:              req.Name,
		GstNo:             req.GstNo,
		Address:           req.Address,
		MobileNumber:      req.MobileNumber,
		Email:             ptrToNullString(req.Email),
		StateID:           ptrToNullInt64(req.StateID),
		CityID:            ptrToNullInt64(req.CityID),
		PinCode:           req.PinCode,
		AccountNumber:     req.AccountNumber,
		AccountPersonName: req.AccountPersonName,
		IfscCode:          req.IfscCode,
		BranchName:        req.BranchName,
		Status:            string(status),
	}
}

// List returns the filtered, paginated party listing. State names ride
// along from the join.
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, page := listRequest(r, partyFilterRules)

	result, err := h.queries.ListPartiesPaged(r.Context(), filters, page)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch parties", nil)
		return
	}

	items := make([]model.PartyResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = partyResponse(p)
	}

	respondSuccess(w, http.StatusOK, "Parties retrieved successfully", model.PartyListData{
		Filters: filters,
		Parties: model.Page[model.PartyResponse]{
			Items:      items,
			Pagination: model.NewPageMeta(page, result.Total),
		},
	})
}

// GetByID returns one party
func (h *PartyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid party ID", nil)
		return
	}

	party, err := h.queries.GetPartyByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Party not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch party", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Party retrieved successfully", partyResponse(party))
}

// validateLocationRefs enforces that the submitted city belongs to the
// submitted state. The selector UI enforces the same rule; neither side
// trusts the other alone. Returns false after writing the response when the
// pair is invalid.
func (h *PartyHandler) validateLocationRefs(w http.ResponseWriter, r *http.Request, stateID, cityID *int64) bool {
	if stateID != nil {
		exists, err := h.queries.StateExists(r.Context(), *stateID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to validate state", nil)
			return false
		}
		if !exists {
			respondError(w, http.StatusBadRequest, "Validation failed",
				map[string]string{"state_id": "state does not exist"})
			return false
		}
	}

	if cityID != nil && stateID != nil {
		ok, err := h.queries.CityBelongsToState(r.Context(), *cityID, *stateID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to validate city", nil)
			return false
		}
		if !ok {
			respondError(w, http.StatusBadRequest, "Validation failed",
				map[string]string{"city_id": "city does not belong to the selected state"})
			return false
		}
	}

	return true
}

// Create adds a party
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	if !h.validateLocationRefs(w, r, req.StateID, req.CityID) {
		return
	}

	party, err := h.queries.CreateParty(r.Context(), partyParams(&req))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create party", nil)
		return
	}

	respondSuccess(w, http.StatusCreated, "Party created successfully", partyResponse(party))
}

// Update replaces a party's fields
func (h *PartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid party ID", nil)
		return
	}

	var req model.PartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	if !h.validateLocationRefs(w, r, req.StateID, req.CityID) {
		return
	}

	party, err := h.queries.UpdateParty(r.Context(), id, partyParams(&req))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Party not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update party", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Party updated successfully", partyResponse(party))
}

// Delete soft-deletes a party
func (h *PartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid party ID", nil)
		return
	}

	if err := h.queries.DeleteParty(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Party not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete party", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Party deleted successfully", nil)
}
