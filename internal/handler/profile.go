package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bizmitra/backoffice-backend/internal/model"
	"github.com/bizmitra/backoffice-backend/internal/repository"
	"github.com/bizmitra/backoffice-backend/internal/storage"
)

// maxLogoSize caps logo uploads at 5 MiB
const maxLogoSize = 5 << 20

// ProfileHandler handles the singleton business-profile screen
type ProfileHandler struct {
	queries *repository.Queries
	logos   *storage.GDriveService
}

// NewProfileHandler creates a new ProfileHandler. logos may be nil when
// Drive credentials are not configured; the logo endpoint then reports the
// feature unavailable.
func NewProfileHandler(queries *repository.Queries, logos *storage.GDriveService) *ProfileHandler {
	return &ProfileHandler{queries: queries, logos: logos}
}

func profileResponse(p repository.BusinessProfile) model.BusinessProfileResponse {
	return model.BusinessProfileResponse{
		ID:                p.ID,
		CompanyName:       p.CompanyName,
		OwnerName:         repository.NullStringToPtr(p.OwnerName),
		MobileNumber:      repository.NullStringToPtr(p.MobileNumber),
		GstNo:             repository.NullStringToPtr(p.GstNo),
		Address:           repository.NullStringToPtr(p.Address),
		StateID:           repository.NullInt64ToPtr(p.StateID),
		CityID:            repository.NullInt64ToPtr(p.CityID),
		BusinessCategory:  repository.NullStringToPtr(p.BusinessCategory),
		AccountNumber:     repository.NullStringToPtr(p.AccountNumber),
		AccountPersonName: repository.NullStringToPtr(p.AccountPersonName),
		IfscCode:          repository.NullStringToPtr(p.IfscCode),
		BranchName:        repository.NullStringToPtr(p.BranchName),
		LogoURL:           repository.NullStringToPtr(p.LogoURL),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// Get returns the business profile, or null data when none exists yet
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.queries.GetBusinessProfile(r.Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondSuccess(w, http.StatusOK, "Business profile not set up yet", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch business profile", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Business profile retrieved successfully", profileResponse(profile))
}

// Upsert creates the profile on first save and updates it afterwards
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req model.BusinessProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	// Same state/city agreement rule as parties; the profile form uses the
	// same dependent selector.
	if req.StateID != nil {
		exists, err := h.queries.StateExists(r.Context(), *req.StateID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to validate state", nil)
			return
		}
		if !exists {
			respondError(w, http.StatusBadRequest, "Validation failed",
				map[string]string{"state_id": "state does not exist"})
			return
		}
	}
	if req.CityID != nil && req.StateID != nil {
		ok, err := h.queries.CityBelongsToState(r.Context(), *req.CityID, *req.StateID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to validate city", nil)
			return
		}
		if !ok {
			respondError(w, http.StatusBadRequest, "Validation failed",
				map[string]string{"city_id": "city does not belong to the selected state"})
			return
		}
	}

	profile, err := h.queries.UpsertBusinessProfile(r.Context(), repository.BusinessProfileParams{
		CompanyName:       req.CompanyName,
		OwnerName:         ptrToNullString(req.OwnerName),
		MobileNumber:      ptrToNullString(req.MobileNumber),
		GstNo:             ptrToNullString(req.GstNo),
		Address:           ptrToNullString(req.Address),
		StateID:           ptrToNullInt64(req.StateID),
		CityID:            ptrToNullInt64(req.CityID),
		BusinessCategory:  ptrToNullString(req.BusinessCategory),
		AccountNumber:     ptrToNullString(req.AccountNumber),
		AccountPersonName: ptrToNullString(req.AccountPersonName),
		IfscCode:          ptrToNullString(req.IfscCode),
		BranchName:        ptrToNullString(req.BranchName),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save business profile", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Business profile saved successfully", profileResponse(profile))
}

// UploadLogo stores a company logo and records its URL on the profile
func (h *ProfileHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if h.logos == nil {
		respondError(w, http.StatusServiceUnavailable, "Logo uploads are not configured", nil)
		return
	}

	profile, err := h.queries.GetBusinessProfile(r.Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Business profile not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch business profile", nil)
		return
	}

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed",
			map[string]string{"logo": "logo file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	mimeType, ok := logoMimeTypes[ext]
	if !ok {
		respondError(w, http.StatusBadRequest, "Validation failed",
			map[string]string{"logo": "logo must be a png, jpg, or webp image"})
		return
	}

	filename := fmt.Sprintf("logo-%d%s", profile.ID, ext)
	logoURL, err := h.logos.UploadFile(file, filename, mimeType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to upload logo", nil)
		return
	}

	if err := h.queries.UpdateBusinessProfileLogo(r.Context(), profile.ID, logoURL); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save logo", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Logo uploaded successfully", map[string]string{"logo_url": logoURL})
}

var logoMimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}
