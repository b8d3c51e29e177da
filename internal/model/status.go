package model

import "strings"

// Status is the uniform active/inactive flag carried by every filterable
// entity. It replaces the mixed "0"/"1" string flags the legacy data used.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus normalizes a raw status value. Unknown values are rejected so
// malformed filter input degrades to "no status filter" instead of failing
// the listing.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	}
	return "", false
}

// StatusOrDefault parses raw, falling back to StatusActive when raw is empty.
// Used by create/update requests where status is optional.
func StatusOrDefault(raw string) (Status, bool) {
	if strings.TrimSpace(raw) == "" {
		return StatusActive, true
	}
	return ParseStatus(raw)
}
