package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = merge(CommonSortFields, map[string]bool{
	"name":               true,
	"phone":              true,
	"visit_count":        true,
	"purchase_count":     true,
	"first_inquiry_date": true,
	"last_contact_date":  true,
})

// BookingSortFields contains allowed sort fields for bookings
var BookingSortFields = merge(CommonSortFields, map[string]bool{
	"date":   true,
	"time":   true,
	"name":   true,
	"status": true,
})

// SurveySortFields contains allowed sort fields for surveys
var SurveySortFields = merge(CommonSortFields, map[string]bool{
	"name":           true,
	"age":            true,
	"selected_model": true,
})

// TransactionSortFields contains allowed sort fields for inventory transactions
var TransactionSortFields = merge(CommonSortFields, map[string]bool{
	"tx_date":  true,
	"tx_type":  true,
	"quantity": true,
})

// PostSortFields contains allowed sort fields for blog posts
var PostSortFields = merge(CommonSortFields, map[string]bool{
	"title":        true,
	"published_at": true,
	"status":       true,
})

// ImageSortFields contains allowed sort fields for image metadata
var ImageSortFields = merge(CommonSortFields, map[string]bool{
	"usage_count": true,
	"file_size":   true,
	"category":    true,
})

// CampaignSortFields contains allowed sort fields for SMS campaigns
var CampaignSortFields = merge(CommonSortFields, map[string]bool{
	"scheduled_at": true,
	"sent_at":      true,
	"status":       true,
})

func merge(base, extra map[string]bool) map[string]bool {
	out := make(map[string]bool, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// orderClause validates field and direction into a safe ORDER BY expression
func orderClause(field, dir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(field, allowed, defaultField) + " " + ValidateSortOrder(dir)
}
