package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/shared"
)

// fifoOrder is the lot ordering every FIFO read uses. The lot ID breaks ties
// between lots that share an arrival position.
const fifoOrder = "arrival_order ASC, id ASC"

// GormLotRepository implements LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.PurchaseOrderLot, error) {
	var lot inventory.PurchaseOrderLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByIDs finds multiple lots by their IDs
func (r *GormLotRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.PurchaseOrderLot, error) {
	if len(ids) == 0 {
		return []*inventory.PurchaseOrderLot{}, nil
	}

	var lots []*inventory.PurchaseOrderLot
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order(fifoOrder).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByReference finds a lot by its unique reference. Lot references are
// matched as issued, not case-folded.
func (r *GormLotRepository) FindByReference(ctx context.Context, reference string) (*inventory.PurchaseOrderLot, error) {
	var lot inventory.PurchaseOrderLot
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByProduct finds all lots for a product, oldest arrival first
func (r *GormLotRepository) FindByProduct(ctx context.Context, productReference string) ([]*inventory.PurchaseOrderLot, error) {
	var lots []*inventory.PurchaseOrderLot
	if err := r.db.WithContext(ctx).
		Where("product_reference = ?", strings.ToUpper(productReference)).
		Order(fifoOrder).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAvailableByProduct finds lots for a product that still have stock,
// oldest arrival first
func (r *GormLotRepository) FindAvailableByProduct(ctx context.Context, productReference string) ([]*inventory.PurchaseOrderLot, error) {
	var lots []*inventory.PurchaseOrderLot
	if err := r.db.WithContext(ctx).
		Where("product_reference = ? AND remaining_quantity > 0", strings.ToUpper(productReference)).
		Order(fifoOrder).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAll finds all lots matching the filter
func (r *GormLotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.PurchaseOrderLot, error) {
	var lots []inventory.PurchaseOrderLot
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.PurchaseOrderLot{}), filter)

	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// Save creates or updates a lot
func (r *GormLotRepository) Save(ctx context.Context, lot *inventory.PurchaseOrderLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// SaveAll creates or updates multiple lots
func (r *GormLotRepository) SaveAll(ctx context.Context, lots []*inventory.PurchaseOrderLot) error {
	if len(lots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(lots).Error
}

// Delete deletes a lot
func (r *GormLotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.PurchaseOrderLot{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts lots matching the filter
func (r *GormLotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.PurchaseOrderLot{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByProduct checks whether any lot references the product
func (r *GormLotRepository) ExistsByProduct(ctx context.Context, productReference string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.PurchaseOrderLot{}).
		Where("product_reference = ?", strings.ToUpper(productReference)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextArrivalOrder returns the next value of the arrival sequence
func (r *GormLotRepository) NextArrivalOrder(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.PurchaseOrderLot{}).
		Select("COALESCE(MAX(arrival_order), 0) + 1").
		Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// stockLevelRow is the scan target for the aggregate queries
type stockLevelRow struct {
	ProductReference string
	TotalRemaining   decimal.Decimal
	TotalOriginal    decimal.Decimal
	LotCount         int64
}

// StockLevelByProduct aggregates the lots of one product. A product without
// lots yields a zero level, not an error.
func (r *GormLotRepository) StockLevelByProduct(ctx context.Context, productReference string) (*inventory.StockLevel, error) {
	productReference = strings.ToUpper(productReference)

	var row stockLevelRow
	if err := r.db.WithContext(ctx).
		Model(&inventory.PurchaseOrderLot{}).
		Select("product_reference, COALESCE(SUM(remaining_quantity), 0) AS total_remaining, COALESCE(SUM(original_quantity), 0) AS total_original, COUNT(*) AS lot_count").
		Where("product_reference = ?", productReference).
		Group("product_reference").
		Scan(&row).Error; err != nil {
		return nil, err
	}

	if row.ProductReference == "" {
		return &inventory.StockLevel{
			ProductReference: productReference,
			TotalRemaining:   decimal.Zero,
			TotalOriginal:    decimal.Zero,
		}, nil
	}

	return &inventory.StockLevel{
		ProductReference: row.ProductReference,
		TotalRemaining:   row.TotalRemaining,
		TotalOriginal:    row.TotalOriginal,
		LotCount:         row.LotCount,
	}, nil
}

// StockLevels aggregates lots per product across the whole ledger
func (r *GormLotRepository) StockLevels(ctx context.Context) ([]inventory.StockLevel, error) {
	var rows []stockLevelRow
	if err := r.db.WithContext(ctx).
		Model(&inventory.PurchaseOrderLot{}).
		Select("product_reference, COALESCE(SUM(remaining_quantity), 0) AS total_remaining, COALESCE(SUM(original_quantity), 0) AS total_original, COUNT(*) AS lot_count").
		Group("product_reference").
		Order("product_reference ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	levels := make([]inventory.StockLevel, len(rows))
	for i, row := range rows {
		levels[i] = inventory.StockLevel{
			ProductReference: row.ProductReference,
			TotalRemaining:   row.TotalRemaining,
			TotalOriginal:    row.TotalOriginal,
			LotCount:         row.LotCount,
		}
	}
	return levels, nil
}

// applyFilter applies filter options to the query
func (r *GormLotRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, LotSortFields, "arrival_order")
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
func (r *GormLotRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference LIKE ? OR product_reference LIKE ?", searchPattern, searchPattern)
	}

	return query
}

// Ensure GormLotRepository implements LotRepository
var _ inventory.LotRepository = (*GormLotRepository)(nil)
