package inventory

import (
	"context"

	"github.com/google/uuid"
)

// AllocationRepository defines the interface for stock allocation record
// persistence
type AllocationRepository interface {
	// FindByCoupon finds the allocation records of one coupon
	FindByCoupon(ctx context.Context, couponID uuid.UUID) ([]StockAllocation, error)

	// FindByVerificationReference finds all allocation records created under
	// one verification reference
	FindByVerificationReference(ctx context.Context, verificationReference string) ([]StockAllocation, error)

	// ExistsByLot checks whether any allocation record references the lot
	ExistsByLot(ctx context.Context, lotID uuid.UUID) (bool, error)

	// SaveAll persists the allocation records of one verification
	SaveAll(ctx context.Context, allocations []*StockAllocation) error

	// DeleteByCoupon removes the allocation records of one coupon
	DeleteByCoupon(ctx context.Context, couponID uuid.UUID) error
}
