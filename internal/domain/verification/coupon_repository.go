package verification

import (
	"context"

	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/shared"
)

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	// FindByID finds a coupon by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByIDs finds multiple coupons by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Coupon, error)

	// FindByReference finds a coupon by its unique coupon reference
	FindByReference(ctx context.Context, couponReference string) (*Coupon, error)

	// FindByVerificationReference finds all coupons verified under one
	// verification reference
	FindByVerificationReference(ctx context.Context, verificationReference string) ([]*Coupon, error)

	// FindAll finds all coupons matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Coupon, error)

	// Save creates or updates a coupon
	Save(ctx context.Context, coupon *Coupon) error

	// Delete deletes a coupon
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts coupons matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByReference checks if a coupon with the given reference exists
	ExistsByReference(ctx context.Context, couponReference string) (bool, error)

	// ExistsByProduct checks whether any coupon references the product
	ExistsByProduct(ctx context.Context, productReference string) (bool, error)
}
