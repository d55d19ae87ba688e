package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted and defaultField otherwise.
// Sort columns are interpolated into SQL, so only whitelisted names may pass.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"customer_name": true,
	"status":        true,
	"total_amount":  true,
}
