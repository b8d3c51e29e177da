package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bizmitra/backoffice-backend/internal/model"
)

// FilterKind says how a filter value is validated during normalization
type FilterKind int

const (
	// FilterText passes any non-empty trimmed string through
	FilterText FilterKind = iota
	// FilterStatus accepts only the status enum literals
	FilterStatus
	// FilterID accepts only positive integer ids
	FilterID
)

// FilterRules is an entity's filter allow-list: the only query parameter
// keys the listing will ever consult. Keys outside the map are ignored
// entirely, so unknown parameters can never become query predicates.
type FilterRules map[string]FilterKind

const defaultPage = 1

// ParseFilters normalizes raw query parameters against an allow-list.
// Absent and empty values are dropped; malformed values (bad status
// literals, non-numeric ids) are dropped too, so filtering degrades to
// fewer constraints instead of failing the page. The returned FilterSpec is
// exactly what gets applied and exactly what gets echoed to the client.
func ParseFilters(query url.Values, rules FilterRules) model.FilterSpec {
	filters := model.FilterSpec{}

	for key, kind := range rules {
		value := strings.TrimSpace(query.Get(key))
		if value == "" {
			continue
		}

		switch kind {
		case FilterText:
			filters[key] = value
		case FilterStatus:
			if status, ok := model.ParseStatus(value); ok {
				filters[key] = string(status)
			}
		case FilterID:
			if id, err := strconv.ParseInt(value, 10, 64); err == nil && id > 0 {
				filters[key] = strconv.FormatInt(id, 10)
			}
		}
	}

	return filters
}

// ParsePage reads the "page" query parameter. Missing, non-numeric, or
// non-positive values fall back to page 1; a page past the end is passed
// through untouched and yields an empty item set with valid metadata.
func ParsePage(query url.Values) int {
	pageStr := query.Get("page")
	if pageStr == "" {
		return defaultPage
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return defaultPage
	}
	return page
}

// parseIDParam parses a positive int64 route parameter
func parseIDParam(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// listRequest bundles the two inputs every listing endpoint needs
func listRequest(r *http.Request, rules FilterRules) (model.FilterSpec, int) {
	query := r.URL.Query()
	return ParseFilters(query, rules), ParsePage(query)
}
