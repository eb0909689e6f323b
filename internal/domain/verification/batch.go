package verification

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// BatchStatus represents the state of one batch verification request
type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "PENDING"
	BatchStatusValidating BatchStatus = "VALIDATING"
	BatchStatusCommitted  BatchStatus = "COMMITTED"
	BatchStatusRejected   BatchStatus = "REJECTED"
)

// IsValid checks if the status is a valid BatchStatus
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusPending, BatchStatusValidating, BatchStatusCommitted, BatchStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transition
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCommitted || s == BatchStatusRejected
}

// CanTransitionTo checks if the status can transition to the target status
func (s BatchStatus) CanTransitionTo(target BatchStatus) bool {
	switch s {
	case BatchStatusPending:
		return target == BatchStatusValidating
	case BatchStatusValidating:
		return target == BatchStatusCommitted || target == BatchStatusRejected
	case BatchStatusCommitted, BatchStatusRejected:
		return false
	}
	return false
}

// ProductShortfall describes one product whose aggregate demand in a batch
// exceeded the available stock
type ProductShortfall struct {
	ProductReference string          `json:"product_reference"`
	Requested        decimal.Decimal `json:"requested"`
	Available        decimal.Decimal `json:"available"`
	Shortfall        decimal.Decimal `json:"shortfall"`
}

// RejectedCoupon pairs a coupon with the reason it was not committed
type RejectedCoupon struct {
	CouponID uuid.UUID `json:"coupon_id"`
	Reason   string    `json:"reason"`
}

// BatchResult is the outcome reported to the caller after a batch
// verification request finishes
type BatchResult struct {
	Status                BatchStatus        `json:"status"`
	VerificationReference string             `json:"verification_reference"`
	Committed             []uuid.UUID        `json:"committed"`
	Rejected              []RejectedCoupon   `json:"rejected"`
	Shortfalls            []ProductShortfall `json:"shortfalls,omitempty"`
}

// VerificationBatch tracks one batch verification request through its state
// machine. The batch itself is not persisted; only its effects on coupons,
// lots and allocation records are.
type VerificationBatch struct {
	VerificationReference string
	CouponIDs             []uuid.UUID
	Status                BatchStatus
}

// NewVerificationBatch creates a pending batch for the given coupons under
// one externally issued verification reference
func NewVerificationBatch(verificationReference string, couponIDs []uuid.UUID) (*VerificationBatch, error) {
	verificationReference = strings.TrimSpace(verificationReference)
	if verificationReference == "" {
		return nil, shared.NewDomainError("INVALID_VERIFICATION_REFERENCE", "Verification reference cannot be empty")
	}
	if len(verificationReference) > 100 {
		return nil, shared.NewDomainError("INVALID_VERIFICATION_REFERENCE", "Verification reference cannot exceed 100 characters")
	}
	if len(couponIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_BATCH", "Batch must contain at least one coupon")
	}

	seen := make(map[uuid.UUID]struct{}, len(couponIDs))
	for _, id := range couponIDs {
		if id == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_COUPON_ID", "Coupon ID cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return nil, shared.NewDomainError("DUPLICATE_COUPON", "Batch contains the same coupon twice")
		}
		seen[id] = struct{}{}
	}

	return &VerificationBatch{
		VerificationReference: verificationReference,
		CouponIDs:             couponIDs,
		Status:                BatchStatusPending,
	}, nil
}

// BeginValidation moves the batch from PENDING to VALIDATING
func (b *VerificationBatch) BeginValidation() error {
	return b.transitionTo(BatchStatusValidating)
}

// Commit moves the batch from VALIDATING to COMMITTED
func (b *VerificationBatch) Commit() error {
	return b.transitionTo(BatchStatusCommitted)
}

// Reject moves the batch from VALIDATING to REJECTED
func (b *VerificationBatch) Reject() error {
	return b.transitionTo(BatchStatusRejected)
}

func (b *VerificationBatch) transitionTo(target BatchStatus) error {
	if !b.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_BATCH_TRANSITION",
			"Batch cannot transition from "+b.Status.String()+" to "+target.String())
	}
	b.Status = target
	return nil
}
