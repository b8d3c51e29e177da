package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/lib/pq"
)

// Note: This test file uses the shared testDB and testQueries from auth_test.go
// which are initialized in TestMain

func cleanupProfiles(t *testing.T) {
	if _, err := testDB.Exec("DELETE FROM business_profiles"); err != nil {
		t.Fatalf("failed to cleanup business_profiles table: %v", err)
	}
}

func TestProfileHandler_Get_NotSetUpYet(t *testing.T) {
	cleanupProfiles(t)

	handler := NewProfileHandler(testQueries, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/business-profile", nil)
	rr := httptest.NewRecorder()
	handler.Get(rr, req)

	// An empty profile is not an error; the client renders the setup form
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if !response.Meta.Success {
		t.Error("expected success=true for missing profile")
	}
	if response.Data != nil {
		t.Errorf("expected null data, got %v", response.Data)
	}
}

func TestProfileHandler_Upsert_CreatesThenUpdates(t *testing.T) {
	cleanupProfiles(t)

	handler := NewProfileHandler(testQueries, nil)

	// First save creates the row
	body, _ := json.Marshal(map[string]interface{}{
		"company_name": "Bizmitra Traders",
		"owner_name":   "A. Sharma",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/business-profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.Upsert(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("create failed: %d: %s", rr.Code, rr.Body.String())
	}

	var first Response
	if err := json.Unmarshal(rr.Body.Bytes(), &first); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	firstID := first.Data.(map[string]interface{})["id"].(float64)

	// Second save updates the same singleton row
	body, _ = json.Marshal(map[string]interface{}{
		"company_name": "Bizmitra Traders Pvt Ltd",
	})
	req = httptest.NewRequest(http.MethodPut, "/api/v1/business-profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	handler.Upsert(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("update failed: %d: %s", rr.Code, rr.Body.String())
	}

	var second Response
	if err := json.Unmarshal(rr.Body.Bytes(), &second); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	data := second.Data.(map[string]interface{})
	if data["id"].(float64) != firstID {
		t.Errorf("upsert created a second row: id %v vs %v", data["id"], firstID)
	}
	if data["company_name"] != "Bizmitra Traders Pvt Ltd" {
		t.Errorf("expected updated company_name, got %v", data["company_name"])
	}

	var count int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM business_profiles").Scan(&count); err != nil {
		t.Fatalf("failed to count profiles: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 profile row, got %d", count)
	}
}

func TestProfileHandler_Upsert_CityMustBelongToState(t *testing.T) {
	cleanupProfiles(t)
	cleanupParties(t)
	cleanupLocations(t)

	stateA, _ := seedLocation(t, "Maharashtra", "Mumbai")
	_, cityB := seedLocation(t, "Gujarat", "Surat")

	handler := NewProfileHandler(testQueries, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"company_name": "Cross-state Co",
		"state_id":     stateA,
		"city_id":      cityB,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/business-profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.Upsert(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if _, exists := response.Meta.Details["city_id"]; !exists {
		t.Error("expected validation error for city_id")
	}
}

func TestProfileHandler_UploadLogo_NotConfigured(t *testing.T) {
	handler := NewProfileHandler(testQueries, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/business-profile/logo", nil)
	rr := httptest.NewRecorder()
	handler.UploadLogo(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d: %s", http.StatusServiceUnavailable, rr.Code, rr.Body.String())
	}
}
