package verification

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/verification"
)

// CreateCouponRequest represents a new patient coupon entering the ledger
type CreateCouponRequest struct {
	CouponReference  string          `json:"coupon_reference" validate:"required,max=100"`
	ProductReference string          `json:"product_reference" validate:"required,max=50"`
	Quantity         decimal.Decimal `json:"quantity" validate:"required"`
	PatientName      string          `json:"patient_name" validate:"omitempty,max=200"`
	PatientCPR       string          `json:"patient_cpr" validate:"omitempty,max=11"`
	CentreCode       string          `json:"centre_code" validate:"omitempty,max=50"`
	LocationCode     string          `json:"location_code" validate:"omitempty,max=50"`
}

// BulkCreateCouponsRequest represents a batch of coupons to create in one
// call. Items are validated independently; valid ones proceed.
type BulkCreateCouponsRequest struct {
	Coupons []CreateCouponRequest `json:"coupons" validate:"required,min=1,dive"`
}

// BulkCreateFailure reports one coupon of a bulk request that was not created
type BulkCreateFailure struct {
	Index           int    `json:"index"`
	CouponReference string `json:"coupon_reference"`
	Reason          string `json:"reason"`
}

// BulkCreateCouponsResponse pairs the coupons created with the items that
// failed validation
type BulkCreateCouponsResponse struct {
	Created []CouponResponse    `json:"created"`
	Failed  []BulkCreateFailure `json:"failed"`
}

// UpdateCouponRequest represents changes to an unverified coupon
type UpdateCouponRequest struct {
	PatientName  string `json:"patient_name" validate:"omitempty,max=200"`
	PatientCPR   string `json:"patient_cpr" validate:"omitempty,max=11"`
	CentreCode   string `json:"centre_code" validate:"omitempty,max=50"`
	LocationCode string `json:"location_code" validate:"omitempty,max=50"`
}

// SubmitBatchRequest represents a batch verification request: the coupons to
// verify and the one externally issued reference they share
type SubmitBatchRequest struct {
	CouponIDs             []uuid.UUID `json:"coupon_ids" validate:"required,min=1"`
	VerificationReference string      `json:"verification_reference" validate:"required,max=100"`
}

// UnverifyResult reports a verification reversal. Issues holds the typed
// restore errors for entries that could not be reversed cleanly; the coupon
// is unverified regardless and the caller decides how to reconcile.
type UnverifyResult struct {
	Coupon    CouponResponse  `json:"coupon"`
	Requested decimal.Decimal `json:"requested"`
	Restored  decimal.Decimal `json:"restored"`
	Issues    []error         `json:"-"`
}

// Clean reports whether the allocation was reversed exactly
func (r *UnverifyResult) Clean() bool {
	return len(r.Issues) == 0
}

// BundleUnverifyResult reports the reversal of a whole verification batch by
// its verification reference
type BundleUnverifyResult struct {
	VerificationReference string           `json:"verification_reference"`
	Coupons               []UnverifyResult `json:"coupons"`
}

// Clean reports whether every coupon in the bundle was reversed exactly
func (r *BundleUnverifyResult) Clean() bool {
	for i := range r.Coupons {
		if !r.Coupons[i].Clean() {
			return false
		}
	}
	return true
}

// CouponResponse represents a coupon in responses
type CouponResponse struct {
	ID                    uuid.UUID       `json:"id"`
	CouponReference       string          `json:"coupon_reference"`
	ProductReference      string          `json:"product_reference"`
	QuantityRequested     decimal.Decimal `json:"quantity_requested"`
	PatientName           string          `json:"patient_name,omitempty"`
	PatientCPR            string          `json:"patient_cpr,omitempty"`
	CentreCode            string          `json:"centre_code,omitempty"`
	LocationCode          string          `json:"location_code,omitempty"`
	Verified              bool            `json:"verified"`
	VerificationReference *string         `json:"verification_reference,omitempty"`
	VerifiedAt            *time.Time      `json:"verified_at,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Version               int             `json:"version"`
}

// CouponListFilter represents filter options for the coupon list
type CouponListFilter struct {
	ProductReference      string `json:"product_reference"`
	Verified              *bool  `json:"verified"`
	VerificationReference string `json:"verification_reference"`
	CentreCode            string `json:"centre_code"`
	LocationCode          string `json:"location_code"`
	Search                string `json:"search"`
	Page                  int    `json:"page" validate:"omitempty,min=1"`
	PageSize              int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	OrderBy               string `json:"order_by"`
	OrderDir              string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ToCouponResponse converts a coupon to a response DTO
func ToCouponResponse(coupon *verification.Coupon) CouponResponse {
	return CouponResponse{
		ID:                    coupon.ID,
		CouponReference:       coupon.CouponReference,
		ProductReference:      coupon.ProductReference,
		QuantityRequested:     coupon.QuantityRequested,
		PatientName:           coupon.PatientName,
		PatientCPR:            coupon.PatientCPR,
		CentreCode:            coupon.CentreCode,
		LocationCode:          coupon.LocationCode,
		Verified:              coupon.Verified,
		VerificationReference: coupon.VerificationReference,
		VerifiedAt:            coupon.VerifiedAt,
		CreatedAt:             coupon.CreatedAt,
		UpdatedAt:             coupon.UpdatedAt,
		Version:               coupon.GetVersion(),
	}
}

// ToCouponResponses converts a coupon slice to response DTOs
func ToCouponResponses(coupons []verification.Coupon) []CouponResponse {
	responses := make([]CouponResponse, len(coupons))
	for i := range coupons {
		responses[i] = ToCouponResponse(&coupons[i])
	}
	return responses
}
