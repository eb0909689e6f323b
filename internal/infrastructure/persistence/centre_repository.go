package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsupply/backend/internal/domain/partner"
	"github.com/medsupply/backend/internal/domain/shared"
)

// GormCentreRepository implements CentreRepository using GORM
type GormCentreRepository struct {
	db *gorm.DB
}

// NewGormCentreRepository creates a new GormCentreRepository
func NewGormCentreRepository(db *gorm.DB) *GormCentreRepository {
	return &GormCentreRepository{db: db}
}

// FindByID finds a centre by its ID
func (r *GormCentreRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Centre, error) {
	var centre partner.Centre
	if err := r.db.WithContext(ctx).First(&centre, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &centre, nil
}

// FindByCode finds a centre by its code
func (r *GormCentreRepository) FindByCode(ctx context.Context, code string) (*partner.Centre, error) {
	var centre partner.Centre
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&centre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &centre, nil
}

// FindAll finds all centres matching the filter
func (r *GormCentreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Centre, error) {
	var centres []partner.Centre
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Centre{}), filter)

	if err := query.Find(&centres).Error; err != nil {
		return nil, err
	}
	return centres, nil
}

// Save creates or updates a centre
func (r *GormCentreRepository) Save(ctx context.Context, centre *partner.Centre) error {
	return r.db.WithContext(ctx).Save(centre).Error
}

// Delete deletes a centre
func (r *GormCentreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Centre{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts centres matching the filter
func (r *GormCentreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.Centre{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a centre with the given code exists
func (r *GormCentreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Centre{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormCentreRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, CentreSortFields, "code")
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
func (r *GormCentreRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ? OR region LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "region":
			query = query.Where("region = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormCentreRepository implements CentreRepository
var _ partner.CentreRepository = (*GormCentreRepository)(nil)
