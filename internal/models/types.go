package models

import (
	"strings"
	"time"
)

// Common constants
const (
	// RecentOrdersLimit is how many orders the dashboard home lists
	RecentOrdersLimit = 5

	// DefaultListLimit caps list queries that do not ask for a limit
	DefaultListLimit = 500
)

// SearchFilters represents common search and filter parameters
type SearchFilters struct {
	Query    string `json:"query,omitempty" form:"q"`
	Active   *bool  `json:"active,omitempty" form:"active"`
	Status   string `json:"status,omitempty" form:"status"`
	MemberID int64  `json:"member_id,omitempty" form:"member"`
	Limit    int    `json:"limit,omitempty" form:"limit"`
	Offset   int    `json:"offset,omitempty" form:"offset"`
}

// DashboardSummary holds the figures shown on the home page
type DashboardSummary struct {
	ActiveMembers   int      `json:"memberCount"`
	ActiveAddresses int      `json:"shippingCount"`
	Orders          int      `json:"orderCount"`
	RecentOrders    []*Order `json:"recentOrders"`
}

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError represents an API error response
type APIError struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  []*ValidationError `json:"fields,omitempty"`
}

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return ve.Field + ": " + ve.Message
}

// ValidationErrors collects every field error found in one pass
type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// ByField maps field names to their first message, for form rendering
func (ve ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(ve))
	for _, e := range ve {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}
