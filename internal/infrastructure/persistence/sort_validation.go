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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"reference":  true,
	"name":       true,
}

// LotSortFields contains allowed sort fields for purchase-order lots
var LotSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"reference":          true,
	"product_reference":  true,
	"original_quantity":  true,
	"remaining_quantity": true,
	"arrival_order":      true,
}

// TransferSortFields contains allowed sort fields for stock transfers
var TransferSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"transfer_reference": true,
	"product_reference":  true,
	"location_code":      true,
	"quantity":           true,
	"transfer_date":      true,
}

// CouponSortFields contains allowed sort fields for patient coupons
var CouponSortFields = map[string]bool{
	"id":                     true,
	"created_at":             true,
	"updated_at":             true,
	"coupon_reference":       true,
	"product_reference":      true,
	"quantity_requested":     true,
	"patient_name":           true,
	"centre_code":            true,
	"location_code":          true,
	"verified":               true,
	"verification_reference": true,
	"verified_at":            true,
}

// LocationSortFields contains allowed sort fields for distribution locations
var LocationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"city":       true,
	"status":     true,
}

// CentreSortFields contains allowed sort fields for medical centres
var CentreSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"region":     true,
	"status":     true,
}

// ActivitySortFields contains allowed sort fields for activity log entries
var ActivitySortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"action":         true,
	"aggregate_type": true,
	"occurred_at":    true,
}
