package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bizmitra/backoffice-backend/internal/auth"
	"github.com/bizmitra/backoffice-backend/internal/config"
	"github.com/bizmitra/backoffice-backend/internal/repository"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var testDB *sql.DB
var testQueries *repository.Queries
var testJWTManager *auth.JWTManager

func TestMain(m *testing.M) {
	// Load .env file from project root
	// Tests run from package directory, so we need to find the project root
	projectRoot := findProjectRoot()
	if projectRoot != "" {
		godotenv.Load(filepath.Join(projectRoot, ".env"))
	}

	// Setup: connect to test database
	dbURL := os.Getenv("DATABASE_URL_TEST")
	if dbURL == "" {
		// Skip integration tests if no test DB configured
		os.Exit(0)
	}

	var err error
	testDB, err = sql.Open("postgres", dbURL)
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}

	if err := testDB.Ping(); err != nil {
		panic("failed to ping test database: " + err.Error())
	}

	testQueries = repository.New(testDB)

	// Initialize JWT manager for tests
	testCfg := &config.Config{
		JWTSecret:          "test-secret-key-for-testing-min-32-chars",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	testJWTManager = auth.NewJWTManager(testCfg)

	// Run tests
	code := m.Run()

	// Teardown
	testDB.Close()
	os.Exit(code)
}

// findProjectRoot walks up the directory tree to find the project root (where .env lives)
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ".env")); err == nil {
			return dir
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func cleanupUsers(t *testing.T) {
	_, err := testDB.Exec("DELETE FROM refresh_tokens")
	if err != nil {
		t.Fatalf("failed to cleanup refresh_tokens table: %v", err)
	}
	_, err = testDB.Exec("DELETE FROM users")
	if err != nil {
		t.Fatalf("failed to cleanup users table: %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	cleanupUsers(t)

	handler := NewAuthHandler(testQueries, testJWTManager)

	reqBody := `{"email": "test@example.com", "name": "Test User", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if !response.Meta.Success {
		t.Errorf("expected success=true, got false")
	}

	if response.Meta.Message != "User registered successfully" {
		t.Errorf("unexpected message: %s", response.Meta.Message)
	}

	data, ok := response.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected data to be a map, got %T", response.Data)
	}

	if data["email"] != "test@example.com" {
		t.Errorf("expected email 'test@example.com', got %v", data["email"])
	}

	// Verify password is not in response
	if _, exists := data["password"]; exists {
		t.Error("password should not be in response")
	}
	if _, exists := data["password_hash"]; exists {
		t.Error("password_hash should not be in response")
	}

	// Verify user exists in database
	user, err := testQueries.GetUserByEmail(context.Background(), "test@example.com")
	if err != nil {
		t.Fatalf("user not found in database: %v", err)
	}

	if user.Name != "Test User" {
		t.Errorf("expected name in DB 'Test User', got %s", user.Name)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	cleanupUsers(t)

	handler := NewAuthHandler(testQueries, testJWTManager)

	reqBody := `{"email": "duplicate@example.com", "name": "First User", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %s", rr.Body.String())
	}

	reqBody = `{"email": "duplicate@example.com", "name": "Second User", "password": "password456"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rr = httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d: %s", http.StatusConflict, rr.Code, rr.Body.String())
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response.Meta.Success {
		t.Error("expected success=false for duplicate email")
	}

	if response.Meta.Message != "Email already registered" {
		t.Errorf("unexpected message: %s", response.Meta.Message)
	}
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	handler := NewAuthHandler(testQueries, testJWTManager)

	tests := []struct {
		name           string
		reqBody        string
		expectedFields []string
	}{
		{
			name:           "empty email",
			reqBody:        `{"email": "", "name": "Test", "password": "password123"}`,
			expectedFields: []string{"email"},
		},
		{
			name:           "invalid email",
			reqBody:        `{"email": "invalid", "name": "Test", "password": "password123"}`,
			expectedFields: []string{"email"},
		},
		{
			name:           "empty name",
			reqBody:        `{"email": "test@example.com", "name": "", "password": "password123"}`,
			expectedFields: []string{"name"},
		},
		{
			name:           "short password",
			reqBody:        `{"email": "test@example.com", "name": "Test", "password": "short"}`,
			expectedFields: []string{"password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(tt.reqBody))
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			handler.Register(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
			}

			var response Response
			if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}

			details := response.Meta.Details
			if details == nil {
				t.Fatal("expected validation details in response")
			}

			for _, field := range tt.expectedFields {
				if _, exists := details[field]; !exists {
					t.Errorf("expected validation error for field %s", field)
				}
			}
		})
	}
}

// createTestUser registers a user for login tests
func createTestUser(t *testing.T, handler *AuthHandler) {
	reqBody := `{"email": "login@example.com", "name": "Login User", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("failed to create test user: %s", rr.Body.String())
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	cleanupUsers(t)

	handler := NewAuthHandler(testQueries, testJWTManager)
	createTestUser(t, handler)

	reqBody := `{"email": "login@example.com", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	data, ok := response.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected data to be a map, got %T", response.Data)
	}

	if data["access_token"] == nil || data["access_token"] == "" {
		t.Error("expected access_token in response")
	}
	if data["refresh_token"] == nil || data["refresh_token"] == "" {
		t.Error("expected refresh_token in response")
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	cleanupUsers(t)

	handler := NewAuthHandler(testQueries, testJWTManager)
	createTestUser(t, handler)

	reqBody := `{"email": "login@example.com", "password": "wrongpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d: %s", http.StatusUnauthorized, rr.Code, rr.Body.String())
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response.Meta.Message != "Invalid email or password" {
		t.Errorf("unexpected message: %s", response.Meta.Message)
	}
}

func TestAuthHandler_Refresh_RotatesToken(t *testing.T) {
	cleanupUsers(t)

	handler := NewAuthHandler(testQueries, testJWTManager)
	createTestUser(t, handler)

	// Login to obtain a refresh token
	reqBody := `{"email": "login@example.com", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.Login(rr, req)

	var loginResponse Response
	if err := json.Unmarshal(rr.Body.Bytes(), &loginResponse); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}
	loginData := loginResponse.Data.(map[string]interface{})
	refreshToken := loginData["refresh_token"].(string)

	// Exchange it
	body, _ := json.Marshal(map[string]string{"refresh_token": refreshToken})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	handler.Refresh(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var refreshResponse Response
	if err := json.Unmarshal(rr.Body.Bytes(), &refreshResponse); err != nil {
		t.Fatalf("failed to parse refresh response: %v", err)
	}
	refreshData := refreshResponse.Data.(map[string]interface{})

	newRefreshToken, _ := refreshData["refresh_token"].(string)
	if newRefreshToken == "" || newRefreshToken == refreshToken {
		t.Error("expected a new refresh token after rotation")
	}

	// Old token must no longer be accepted
	body, _ = json.Marshal(map[string]string{"refresh_token": refreshToken})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	handler.Refresh(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d for reused token, got %d", http.StatusUnauthorized, rr.Code)
	}
}
