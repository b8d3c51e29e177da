package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bizmitra/backoffice-backend/internal/cache"
	"github.com/bizmitra/backoffice-backend/internal/model"
	"github.com/bizmitra/backoffice-backend/internal/repository"
)

const (
	// statesCacheKey holds the full state list. State reference data is
	// effectively immutable, so nothing invalidates this key; it simply
	// expires.
	statesCacheKey = "all_states"
	statesCacheTTL = 7 * 24 * time.Hour
)

// LocationHandler serves the state/city reference endpoints backing the
// dependent location selector
type LocationHandler struct {
	queries *repository.Queries
	cache   *cache.TTL
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(queries *repository.Queries, c *cache.TTL) *LocationHandler {
	return &LocationHandler{queries: queries, cache: c}
}

// ListStates returns every state, served from the process-wide cache
func (h *LocationHandler) ListStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.cachedStates(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch states", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "States retrieved successfully", states)
}

// ListCities returns the cities of the state named by the required state_id
// query parameter. The id must reference an existing state; that check is
// transport-layer validation, the repository itself treats unknown ids as
// empty.
func (h *LocationHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("state_id"))
	if raw == "" {
		respondError(w, http.StatusBadRequest, "Validation failed",
			map[string]string{"state_id": "state_id is required"})
		return
	}

	stateID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || stateID < 1 {
		respondError(w, http.StatusBadRequest, "Validation failed",
			map[string]string{"state_id": "state_id must be a positive integer"})
		return
	}

	exists, err := h.queries.StateExists(r.Context(), stateID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to validate state", nil)
		return
	}
	if !exists {
		respondError(w, http.StatusBadRequest, "Validation failed",
			map[string]string{"state_id": "state does not exist"})
		return
	}

	cities, err := h.queries.ListCitiesByState(r.Context(), stateID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch cities", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Cities retrieved successfully", cities)
}

func (h *LocationHandler) cachedStates(r *http.Request) ([]model.StateOption, error) {
	v, err := h.cache.Remember(statesCacheKey, statesCacheTTL, func() (interface{}, error) {
		return h.queries.ListStates(r.Context())
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.StateOption), nil
}
