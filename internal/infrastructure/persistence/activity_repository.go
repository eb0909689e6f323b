package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsupply/backend/internal/domain/audit"
	"github.com/medsupply/backend/internal/domain/shared"
)

// GormActivityRepository implements ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Save appends an activity entry. The trail is insert-only.
func (r *GormActivityRepository) Save(ctx context.Context, activity *audit.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// FindAll finds activity entries matching the filter, newest first
func (r *GormActivityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Activity, error) {
	var activities []audit.Activity
	query := r.applyFilter(r.db.WithContext(ctx).Model(&audit.Activity{}), filter)

	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// FindByAggregate finds the trail of one aggregate, newest first
func (r *GormActivityRepository) FindByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID) ([]audit.Activity, error) {
	var activities []audit.Activity
	if err := r.db.WithContext(ctx).
		Where("aggregate_type = ? AND aggregate_id = ?", aggregateType, aggregateID).
		Order("occurred_at DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// Count counts activity entries matching the filter
func (r *GormActivityRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&audit.Activity{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormActivityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, ActivitySortFields, "occurred_at")
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
func (r *GormActivityRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference LIKE ? OR detail LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "action":
			query = query.Where("action = ?", value)
		case "aggregate_type":
			query = query.Where("aggregate_type = ?", value)
		}
	}

	return query
}

// Ensure GormActivityRepository implements ActivityRepository
var _ audit.ActivityRepository = (*GormActivityRepository)(nil)
