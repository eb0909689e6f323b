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

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer by its ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransfer, error) {
	var transfer inventory.StockTransfer
	if err := r.db.WithContext(ctx).First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByReference finds a transfer by its unique reference
func (r *GormTransferRepository) FindByReference(ctx context.Context, transferReference string) (*inventory.StockTransfer, error) {
	var transfer inventory.StockTransfer
	if err := r.db.WithContext(ctx).
		Where("transfer_reference = ?", strings.ToUpper(transferReference)).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll finds all transfers matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockTransfer, error) {
	var transfers []inventory.StockTransfer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.StockTransfer{}), filter)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a transfer
func (r *GormTransferRepository) Save(ctx context.Context, transfer *inventory.StockTransfer) error {
	return r.db.WithContext(ctx).Save(transfer).Error
}

// Count counts transfers matching the filter
func (r *GormTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.StockTransfer{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByReference checks if a transfer with the given reference exists
func (r *GormTransferRepository) ExistsByReference(ctx context.Context, transferReference string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockTransfer{}).
		Where("transfer_reference = ?", strings.ToUpper(transferReference)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// transferSummaryRow is the scan target for the summary aggregate
type transferSummaryRow struct {
	TransferCount   int64
	TotalQuantity   decimal.Decimal
	ProductsServed  int64
	LocationsServed int64
}

// Summary aggregates the whole transfer history. An empty history yields a
// zero summary, not an error.
func (r *GormTransferRepository) Summary(ctx context.Context) (*inventory.TransferSummary, error) {
	var row transferSummaryRow
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockTransfer{}).
		Select("COUNT(*) AS transfer_count, COALESCE(SUM(quantity), 0) AS total_quantity, COUNT(DISTINCT product_reference) AS products_served, COUNT(DISTINCT location_code) AS locations_served").
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &inventory.TransferSummary{
		TransferCount:   row.TransferCount,
		TotalQuantity:   row.TotalQuantity,
		ProductsServed:  row.ProductsServed,
		LocationsServed: row.LocationsServed,
	}, nil
}

// applyFilter applies filter options to the query
func (r *GormTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, TransferSortFields, "transfer_date")
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
func (r *GormTransferRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("transfer_reference LIKE ? OR product_reference LIKE ? OR location_code LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "product_reference":
			query = query.Where("product_reference = ?", value)
		case "location_code":
			query = query.Where("location_code = ?", value)
		}
	}

	return query
}

// Ensure GormTransferRepository implements TransferRepository
var _ inventory.TransferRepository = (*GormTransferRepository)(nil)
