package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsupply/backend/internal/domain/inventory"
)

// GormAllocationRepository implements AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByCoupon finds the allocation records of one coupon
func (r *GormAllocationRepository) FindByCoupon(ctx context.Context, couponID uuid.UUID) ([]inventory.StockAllocation, error) {
	var allocations []inventory.StockAllocation
	if err := r.db.WithContext(ctx).
		Where("coupon_id = ?", couponID).
		Order("created_at ASC, id ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// FindByVerificationReference finds all allocation records created under one
// verification reference
func (r *GormAllocationRepository) FindByVerificationReference(ctx context.Context, verificationReference string) ([]inventory.StockAllocation, error) {
	var allocations []inventory.StockAllocation
	if err := r.db.WithContext(ctx).
		Where("verification_reference = ?", verificationReference).
		Order("created_at ASC, id ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// ExistsByLot checks whether any allocation record references the lot
func (r *GormAllocationRepository) ExistsByLot(ctx context.Context, lotID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockAllocation{}).
		Where("lot_id = ?", lotID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveAll persists the allocation records of one verification
func (r *GormAllocationRepository) SaveAll(ctx context.Context, allocations []*inventory.StockAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(allocations).Error
}

// DeleteByCoupon removes the allocation records of one coupon
func (r *GormAllocationRepository) DeleteByCoupon(ctx context.Context, couponID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&inventory.StockAllocation{}, "coupon_id = ?", couponID).Error
}

// Ensure GormAllocationRepository implements AllocationRepository
var _ inventory.AllocationRepository = (*GormAllocationRepository)(nil)
