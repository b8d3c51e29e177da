package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// Note: This test file uses the shared testDB and testQueries from auth_test.go
// which are initialized in TestMain

func cleanupParties(t *testing.T) {
	_, err := testDB.Exec("DELETE FROM parties")
	if err != nil {
		t.Fatalf("failed to cleanup parties table: %v", err)
	}
}

func cleanupLocations(t *testing.T) {
	for _, table := range []string{"cities", "states", "countries"} {
		if _, err := testDB.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("failed to cleanup %s table: %v", table, err)
		}
	}
}

// seedLocation creates one country/state/city chain and returns the state
// and city ids
func seedLocation(t *testing.T, stateName, cityName string) (int64, int64) {
	var countryID int64
	err := testDB.QueryRow(`
		INSERT INTO countries (name) VALUES ('India') RETURNING id
	`).Scan(&countryID)
	if err != nil {
		t.Fatalf("failed to seed country: %v", err)
	}

	var stateID int64
	err = testDB.QueryRow(`
		INSERT INTO states (name, country_id) VALUES ($1, $2) RETURNING id
	`, stateName, countryID).Scan(&stateID)
	if err != nil {
		t.Fatalf("failed to seed state: %v", err)
	}

	var cityID int64
	err = testDB.QueryRow(`
		INSERT INTO cities (name, state_id) VALUES ($1, $2) RETURNING id
	`, cityName, stateID).Scan(&cityID)
	if err != nil {
		t.Fatalf("failed to seed city: %v", err)
	}

	return stateID, cityID
}

// createTestParty inserts a party row directly and returns its id
func createTestParty(t *testing.T, name, mobile, email string) int64 {
	var id int64
	err := testDB.QueryRow(`
		INSERT INTO parties (name, mobile_number, email, status)
		VALUES ($1, $2, NULLIF($3, ''), 'active')
		RETURNING id
	`, name, mobile, email).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test party: %v", err)
	}
	return id
}

// listParties runs the List handler and returns the decoded data payload
func listParties(t *testing.T, query string) map[string]interface{} {
	handler := NewPartyHandler(testQueries)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parties"+query, nil)
	rr := httptest.NewRecorder()

	handler.List(rr, req)

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
	return data
}

func partyItems(t *testing.T, data map[string]interface{}) []interface{} {
	page, ok := data["parties"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected parties page in data, got %T", data["parties"])
	}
	items, ok := page["items"].([]interface{})
	if !ok {
		t.Fatalf("expected items array, got %T", page["items"])
	}
	return items
}

func partyPagination(t *testing.T, data map[string]interface{}) map[string]interface{} {
	page := data["parties"].(map[string]interface{})
	pagination, ok := page["pagination"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected pagination object, got %T", page["pagination"])
	}
	return pagination
}

func TestPartyHandler_List_SearchMatchesEmailOnly(t *testing.T) {
	cleanupParties(t)

	// The search term appears only in one party's email
	createTestParty(t, "Acme Traders", "9876543210", "contact@zincworks.example")
	createTestParty(t, "Bharat Supplies", "9123456780", "sales@bharat.example")

	data := listParties(t, "?search=zincworks")
	items := partyItems(t, data)

	if len(items) != 1 {
		t.Fatalf("expected 1 party, got %d", len(items))
	}
	party := items[0].(map[string]interface{})
	if party["name"] != "Acme Traders" {
		t.Errorf("expected 'Acme Traders', got %v", party["name"])
	}
}

func TestPartyHandler_List_SearchNoMatches(t *testing.T) {
	cleanupParties(t)

	createTestParty(t, "Acme Traders", "9876543210", "contact@acme.example")

	data := listParties(t, "?search=doesnotexistanywhere")
	items := partyItems(t, data)
	pagination := partyPagination(t, data)

	if len(items) != 0 {
		t.Errorf("expected 0 parties, got %d", len(items))
	}
	if got := pagination["total_items"].(float64); got != 0 {
		t.Errorf("expected total_items 0, got %v", got)
	}
	if got := pagination["total_pages"].(float64); got != 0 {
		t.Errorf("expected total_pages 0, got %v", got)
	}
}

func TestPartyHandler_List_PageBeyondLast(t *testing.T) {
	cleanupParties(t)

	for i := 0; i < 3; i++ {
		createTestParty(t, fmt.Sprintf("Party %d", i), "9000000000", "")
	}

	data := listParties(t, "?page=7")
	items := partyItems(t, data)
	pagination := partyPagination(t, data)

	if len(items) != 0 {
		t.Errorf("expected 0 parties past the last page, got %d", len(items))
	}
	// The requested page is preserved, not clamped
	if got := pagination["current_page"].(float64); got != 7 {
		t.Errorf("expected current_page 7, got %v", got)
	}
	if pagination["has_next"].(bool) {
		t.Error("expected has_next=false past the last page")
	}
}

func TestPartyHandler_List_SecondPage(t *testing.T) {
	cleanupParties(t)

	for i := 0; i < 13; i++ {
		createTestParty(t, fmt.Sprintf("Party %02d", i), "9000000000", "")
	}

	data := listParties(t, "?page=2")
	items := partyItems(t, data)
	pagination := partyPagination(t, data)

	if len(items) != 3 {
		t.Errorf("expected 3 parties on page 2, got %d", len(items))
	}
	if got := pagination["total_items"].(float64); got != 13 {
		t.Errorf("expected total_items 13, got %v", got)
	}
	if got := pagination["total_pages"].(float64); got != 2 {
		t.Errorf("expected total_pages 2, got %v", got)
	}
	if !pagination["has_prev"].(bool) {
		t.Error("expected has_prev=true on page 2")
	}
}

func TestPartyHandler_List_FilterEchoRoundTrip(t *testing.T) {
	cleanupParties(t)

	createTestParty(t, "Roundtrip Traders", "9876543210", "rt@example.com")
	createTestParty(t, "Other Party", "9123456780", "")

	first := listParties(t, "?search=roundtrip&status=active")

	echoed, ok := first["filters"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected filters in response, got %T", first["filters"])
	}

	// Re-submit exactly the filters the server echoed
	query := "?"
	for k, v := range echoed {
		query += k + "=" + v.(string) + "&"
	}
	second := listParties(t, query)

	firstItems := partyItems(t, first)
	secondItems := partyItems(t, second)

	if len(firstItems) != len(secondItems) {
		t.Fatalf("echo round-trip changed result count: %d vs %d", len(firstItems), len(secondItems))
	}
	for i := range firstItems {
		a := firstItems[i].(map[string]interface{})
		b := secondItems[i].(map[string]interface{})
		if a["id"] != b["id"] {
			t.Errorf("echo round-trip changed row %d: %v vs %v", i, a["id"], b["id"])
		}
	}
}

func TestPartyHandler_List_UnknownFilterIgnored(t *testing.T) {
	cleanupParties(t)

	createTestParty(t, "Acme Traders", "9876543210", "")
	createTestParty(t, "Bharat Supplies", "9123456780", "")

	withUnknown := listParties(t, "?bogus_key=anything")
	without := listParties(t, "")

	if len(partyItems(t, withUnknown)) != len(partyItems(t, without)) {
		t.Error("unknown filter key changed the result set")
	}

	filters := withUnknown["filters"].(map[string]interface{})
	if _, exists := filters["bogus_key"]; exists {
		t.Error("unknown filter key echoed back in filters")
	}
}

func TestPartyHandler_Delete_SoftDeleteExcludesFromListing(t *testing.T) {
	cleanupParties(t)

	id := createTestParty(t, "Doomed Party", "9876543210", "")

	handler := NewPartyHandler(testQueries)

	r := chi.NewRouter()
	r.Delete("/parties/{id}", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/parties/"+strconv.FormatInt(id, 10), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("delete failed: %d: %s", rr.Code, rr.Body.String())
	}

	// Gone from listings
	if got := len(partyItems(t, listParties(t, ""))); got != 0 {
		t.Errorf("expected 0 parties after soft delete, got %d", got)
	}

	// But the row still exists
	var count int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM parties WHERE id = $1 AND deleted_at IS NOT NULL", id).Scan(&count); err != nil {
		t.Fatalf("failed to count soft-deleted rows: %v", err)
	}
	if count != 1 {
		t.Errorf("expected soft-deleted row to remain, found %d", count)
	}

	// A second delete reports not found
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/parties/"+strconv.FormatInt(id, 10), nil)
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d on repeat delete, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestPartyHandler_Create_CityMustBelongToState(t *testing.T) {
	cleanupParties(t)
	cleanupLocations(t)

	stateA, _ := seedLocation(t, "Maharashtra", "Mumbai")
	_, cityB := seedLocation(t, "Gujarat", "Surat")

	handler := NewPartyHandler(testQueries)

	body, _ := json.Marshal(map[string]interface{}{
		"name":          "Cross-state Party",
		"mobile_number": "9876543210",
		"state_id":      stateA,
		"city_id":       cityB,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parties", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.Create(rr, req)

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

func TestPartyHandler_Create_Success(t *testing.T) {
	cleanupParties(t)
	cleanupLocations(t)

	stateID, cityID := seedLocation(t, "Maharashtra", "Pune")

	handler := NewPartyHandler(testQueries)

	body, _ := json.Marshal(map[string]interface{}{
		"name":          "New Party",
		"mobile_number": "9876543210",
		"email":         "new@party.example",
		"state_id":      stateID,
		"city_id":       cityID,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parties", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	data := response.Data.(map[string]interface{})
	if data["name"] != "New Party" {
		t.Errorf("expected name 'New Party', got %v", data["name"])
	}
	if data["status"] != "active" {
		t.Errorf("expected default status 'active', got %v", data["status"])
	}
	if data["state_name"] != "Maharashtra" {
		t.Errorf("expected joined state_name 'Maharashtra', got %v", data["state_name"])
	}
}

func TestPartyHandler_GetByID_NotFound(t *testing.T) {
	cleanupParties(t)

	handler := NewPartyHandler(testQueries)

	r := chi.NewRouter()
	r.Get("/parties/{id}", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/parties/999999", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, rr.Code, rr.Body.String())
	}
}
