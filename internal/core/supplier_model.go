package core

import (
	"strings"
	"unicode/utf8"
)

// MaxSupplierNameLength is counted in characters, not bytes.
const MaxSupplierNameLength = 120

// Supplier is a sourcing contact for ingredients. It takes no part in costing.
type Supplier struct {
	ID           int    `json:"id"`
	TeamID       int    `json:"team_id"`
	Name         string `json:"name"`
	LeadTimeDays int    `json:"lead_time_days"`
}

// NewSupplier validates s and returns it with a trimmed name.
func NewSupplier(s Supplier) (Supplier, error) {
	if s.TeamID <= 0 {
		return Supplier{}, validationError("teamId must be positive")
	}
	if s.ID < 0 {
		return Supplier{}, validationError("id must be non-negative")
	}
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return Supplier{}, validationError("supplier name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxSupplierNameLength {
		return Supplier{}, validationError("supplier name must be %d characters or fewer", MaxSupplierNameLength)
	}
	if s.LeadTimeDays < 0 {
		return Supplier{}, validationError("lead time days must be a non-negative integer")
	}
	s.Name = name
	return s, nil
}
