package model

// PageSize is the fixed page size for every listing in the app.
const PageSize = 10

// FilterSpec is the normalized set of filters actually applied to a listing,
// keyed by filter name. It is echoed back to the client so the exact same
// filters can be re-submitted and produce an identical page.
type FilterSpec map[string]string

// PageMeta contains pagination metadata for paginated responses.
//
// CurrentPage is preserved as requested even when it lies past the last
// page; such pages carry no rows and HasNext is false.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasPrev     bool  `json:"has_prev"`
	HasNext     bool  `json:"has_next"`
}

// Page is one window of results plus its pagination metadata.
type Page[T any] struct {
	Items      []T      `json:"items"`
	Pagination PageMeta `json:"pagination"`
}

// NewPageMeta computes pagination metadata for a 1-indexed page over
// totalItems matching rows.
func NewPageMeta(page int, totalItems int64) PageMeta {
	totalPages := int(totalItems) / PageSize
	if int(totalItems)%PageSize > 0 {
		totalPages++
	}
	return PageMeta{
		CurrentPage: page,
		PerPage:     PageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
	}
}
