package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsupply/backend/internal/domain/shared"
	"github.com/medsupply/backend/internal/domain/verification"
)

// GormCouponRepository implements CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by its ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*verification.Coupon, error) {
	var coupon verification.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByIDs finds multiple coupons by their IDs
func (r *GormCouponRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*verification.Coupon, error) {
	if len(ids) == 0 {
		return []*verification.Coupon{}, nil
	}

	var coupons []*verification.Coupon
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// FindByReference finds a coupon by its unique coupon reference. Coupon
// references are matched as issued, not case-folded.
func (r *GormCouponRepository) FindByReference(ctx context.Context, couponReference string) (*verification.Coupon, error) {
	var coupon verification.Coupon
	if err := r.db.WithContext(ctx).
		Where("coupon_reference = ?", couponReference).
		First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByVerificationReference finds all coupons verified under one
// verification reference
func (r *GormCouponRepository) FindByVerificationReference(ctx context.Context, verificationReference string) ([]*verification.Coupon, error) {
	var coupons []*verification.Coupon
	if err := r.db.WithContext(ctx).
		Where("verification_reference = ?", verificationReference).
		Order("coupon_reference ASC").
		Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// FindAll finds all coupons matching the filter
func (r *GormCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]verification.Coupon, error) {
	var coupons []verification.Coupon
	query := r.applyFilter(r.db.WithContext(ctx).Model(&verification.Coupon{}), filter)

	if err := query.Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, coupon *verification.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

// Delete deletes a coupon
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&verification.Coupon{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts coupons matching the filter
func (r *GormCouponRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&verification.Coupon{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByReference checks if a coupon with the given reference exists
func (r *GormCouponRepository) ExistsByReference(ctx context.Context, couponReference string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&verification.Coupon{}).
		Where("coupon_reference = ?", couponReference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByProduct checks whether any coupon references the product
func (r *GormCouponRepository) ExistsByProduct(ctx context.Context, productReference string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&verification.Coupon{}).
		Where("product_reference = ?", strings.ToUpper(productReference)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormCouponRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, CouponSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCouponRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("coupon_reference LIKE ? OR product_reference LIKE ? OR patient_name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "product_reference":
			query = query.Where("product_reference = ?", value)
		case "verified":
			query = query.Where("verified = ?", value)
		case "verification_reference":
			query = query.Where("verification_reference = ?", value)
		case "centre_code":
			query = query.Where("centre_code = ?", value)
		case "location_code":
			query = query.Where("location_code = ?", value)
		}
	}

	return query
}

// Ensure GormCouponRepository implements CouponRepository
var _ verification.CouponRepository = (*GormCouponRepository)(nil)
