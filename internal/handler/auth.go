package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bizmitra/backoffice-backend/internal/auth"
	"github.com/bizmitra/backoffice-backend/internal/middleware"
	"github.com/bizmitra/backoffice-backend/internal/model"
	"github.com/bizmitra/backoffice-backend/internal/repository"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	queries    *repository.Queries
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(queries *repository.Queries, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		queries:    queries,
		jwtManager: jwtManager,
	}
}

func userResponse(user repository.User) model.UserResponse {
	return model.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role.String,
		CreatedAt: user.CreatedAt.Time,
		UpdatedAt: user.UpdatedAt.Time,
	}
}

// issueTokens generates an access token plus a stored refresh token for user
func (h *AuthHandler) issueTokens(r *http.Request, user repository.User) (string, string, error) {
	accessToken, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role.String)
	if err != nil {
		return "", "", err
	}

	rawRefreshToken, tokenHash, expiresAt, err := h.jwtManager.GenerateRefreshToken()
	if err != nil {
		return "", "", err
	}

	_, err = h.queries.CreateRefreshToken(r.Context(), repository.CreateRefreshTokenParams{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		UserAgent: sql.NullString{String: r.UserAgent(), Valid: r.UserAgent() != ""},
		IpAddress: sql.NullString{String: getClientIP(r), Valid: true},
	})
	if err != nil {
		return "", "", err
	}

	return accessToken, rawRefreshToken, nil
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to process registration", nil)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), repository.CreateUserParams{
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Role:         sql.NullString{String: "user", Valid: true},
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			respondError(w, http.StatusConflict, "Email already registered", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create user", nil)
		return
	}

	respondSuccess(w, http.StatusCreated, "User registered successfully", userResponse(user))
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to process login", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	accessToken, rawRefreshToken, err := h.issueTokens(r, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create session", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Login successful", model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: rawRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.jwtManager.GetAccessTokenExpiry().Seconds()),
		User:         userResponse(user),
	})
}

// Refresh handles token refresh with rotation
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	tokenHash := auth.HashRefreshToken(req.RefreshToken)

	storedToken, err := h.queries.GetRefreshTokenByHash(r.Context(), tokenHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "Invalid or expired refresh token", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to validate token", nil)
		return
	}

	if err := h.queries.RevokeRefreshToken(r.Context(), tokenHash); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to process refresh", nil)
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), storedToken.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user", nil)
		return
	}

	accessToken, rawRefreshToken, err := h.issueTokens(r, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create session", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Token refreshed successfully", model.RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: rawRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.jwtManager.GetAccessTokenExpiry().Seconds()),
	})
}

// GetMe returns the currently authenticated user
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch user", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "User retrieved successfully", userResponse(user))
}

// Logout revokes every live refresh token of the authenticated user
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	if err := h.queries.RevokeUserRefreshTokens(r.Context(), claims.UserID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to process logout", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		return ip[:idx]
	}
	return ip
}
