package verification

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/shared"
)

// NotVerifiedError is returned when an operation requiring a verified coupon
// is attempted on an unverified one
type NotVerifiedError struct {
	CouponID        uuid.UUID
	CouponReference string
}

// Error implements the error interface
func (e *NotVerifiedError) Error() string {
	return fmt.Sprintf("coupon %s is not verified", e.CouponReference)
}

// Unwrap allows errors.Is checks against shared.ErrInvalidState
func (e *NotVerifiedError) Unwrap() error {
	return shared.ErrInvalidState
}

// NewNotVerifiedError creates a new NotVerifiedError
func NewNotVerifiedError(coupon *Coupon) *NotVerifiedError {
	return &NotVerifiedError{
		CouponID:        coupon.ID,
		CouponReference: coupon.CouponReference,
	}
}

// AlreadyVerifiedError is returned when a verification is attempted on a
// coupon that already carries one
type AlreadyVerifiedError struct {
	CouponID              uuid.UUID
	CouponReference       string
	VerificationReference string
}

// Error implements the error interface
func (e *AlreadyVerifiedError) Error() string {
	return fmt.Sprintf("coupon %s is already verified under %s", e.CouponReference, e.VerificationReference)
}

// Unwrap allows errors.Is checks against shared.ErrInvalidState
func (e *AlreadyVerifiedError) Unwrap() error {
	return shared.ErrInvalidState
}

// NewAlreadyVerifiedError creates a new AlreadyVerifiedError
func NewAlreadyVerifiedError(coupon *Coupon) *AlreadyVerifiedError {
	reference := ""
	if coupon.VerificationReference != nil {
		reference = *coupon.VerificationReference
	}
	return &AlreadyVerifiedError{
		CouponID:              coupon.ID,
		CouponReference:       coupon.CouponReference,
		VerificationReference: reference,
	}
}

// PartialCommitError is returned when a batch passed validation but an
// individual deduction failed mid-commit. Deductions applied before the
// failure remain applied; the error lists exactly which coupons did and did
// not commit so the caller can reconcile.
type PartialCommitError struct {
	VerificationReference string
	Committed             []uuid.UUID
	Failed                []RejectedCoupon
	Cause                 error
}

// Error implements the error interface
func (e *PartialCommitError) Error() string {
	return fmt.Sprintf(
		"batch %s partially committed: %d coupons verified, %d failed: %v",
		e.VerificationReference, len(e.Committed), len(e.Failed), e.Cause,
	)
}

// Unwrap returns the error that interrupted the commit
func (e *PartialCommitError) Unwrap() error {
	return e.Cause
}

// NewPartialCommitError creates a new PartialCommitError
func NewPartialCommitError(verificationReference string, committed []uuid.UUID, failed []RejectedCoupon, cause error) *PartialCommitError {
	return &PartialCommitError{
		VerificationReference: verificationReference,
		Committed:             committed,
		Failed:                failed,
		Cause:                 cause,
	}
}
