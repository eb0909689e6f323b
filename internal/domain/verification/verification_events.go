package verification

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCoupon = "Coupon"

// Event type constants
const (
	EventTypeCouponCreated    = "CouponCreated"
	EventTypeCouponVerified   = "CouponVerified"
	EventTypeCouponUnverified = "CouponUnverified"
	EventTypeCouponDeleted    = "CouponDeleted"
)

// CouponCreatedEvent is published when a coupon enters the ledger
type CouponCreatedEvent struct {
	shared.BaseDomainEvent
	CouponID          uuid.UUID       `json:"coupon_id"`
	CouponReference   string          `json:"coupon_reference"`
	ProductReference  string          `json:"product_reference"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
}

// NewCouponCreatedEvent creates a new CouponCreatedEvent
func NewCouponCreatedEvent(coupon *Coupon) *CouponCreatedEvent {
	return &CouponCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeCouponCreated, AggregateTypeCoupon, coupon.ID),
		CouponID:          coupon.ID,
		CouponReference:   coupon.CouponReference,
		ProductReference:  coupon.ProductReference,
		QuantityRequested: coupon.QuantityRequested,
	}
}

// EventType returns the event type name
func (e *CouponCreatedEvent) EventType() string {
	return EventTypeCouponCreated
}

// CouponVerifiedEvent is published when a coupon is stamped with a
// verification reference and its stock deducted
type CouponVerifiedEvent struct {
	shared.BaseDomainEvent
	CouponID              uuid.UUID       `json:"coupon_id"`
	CouponReference       string          `json:"coupon_reference"`
	ProductReference      string          `json:"product_reference"`
	QuantityRequested     decimal.Decimal `json:"quantity_requested"`
	VerificationReference string          `json:"verification_reference"`
}

// NewCouponVerifiedEvent creates a new CouponVerifiedEvent
func NewCouponVerifiedEvent(coupon *Coupon) *CouponVerifiedEvent {
	reference := ""
	if coupon.VerificationReference != nil {
		reference = *coupon.VerificationReference
	}
	return &CouponVerifiedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeCouponVerified, AggregateTypeCoupon, coupon.ID),
		CouponID:              coupon.ID,
		CouponReference:       coupon.CouponReference,
		ProductReference:      coupon.ProductReference,
		QuantityRequested:     coupon.QuantityRequested,
		VerificationReference: reference,
	}
}

// EventType returns the event type name
func (e *CouponVerifiedEvent) EventType() string {
	return EventTypeCouponVerified
}

// CouponUnverifiedEvent is published when a verification is reversed and the
// coupon returns to the unverified state
type CouponUnverifiedEvent struct {
	shared.BaseDomainEvent
	CouponID              uuid.UUID       `json:"coupon_id"`
	CouponReference       string          `json:"coupon_reference"`
	ProductReference      string          `json:"product_reference"`
	QuantityRequested     decimal.Decimal `json:"quantity_requested"`
	VerificationReference string          `json:"verification_reference"`
}

// NewCouponUnverifiedEvent creates a new CouponUnverifiedEvent
func NewCouponUnverifiedEvent(coupon *Coupon, verificationReference string) *CouponUnverifiedEvent {
	return &CouponUnverifiedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeCouponUnverified, AggregateTypeCoupon, coupon.ID),
		CouponID:              coupon.ID,
		CouponReference:       coupon.CouponReference,
		ProductReference:      coupon.ProductReference,
		QuantityRequested:     coupon.QuantityRequested,
		VerificationReference: verificationReference,
	}
}

// EventType returns the event type name
func (e *CouponUnverifiedEvent) EventType() string {
	return EventTypeCouponUnverified
}

// CouponDeletedEvent is published when a coupon is removed from the ledger
type CouponDeletedEvent struct {
	shared.BaseDomainEvent
	CouponID         uuid.UUID `json:"coupon_id"`
	CouponReference  string    `json:"coupon_reference"`
	ProductReference string    `json:"product_reference"`
}

// NewCouponDeletedEvent creates a new CouponDeletedEvent
func NewCouponDeletedEvent(coupon *Coupon) *CouponDeletedEvent {
	return &CouponDeletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCouponDeleted, AggregateTypeCoupon, coupon.ID),
		CouponID:         coupon.ID,
		CouponReference:  coupon.CouponReference,
		ProductReference: coupon.ProductReference,
	}
}

// EventType returns the event type name
func (e *CouponDeletedEvent) EventType() string {
	return EventTypeCouponDeleted
}
