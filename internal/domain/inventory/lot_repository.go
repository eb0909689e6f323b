package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// StockLevel is an aggregated view of one product's lots, used for stock
// summaries and low-stock detection
type StockLevel struct {
	ProductReference string          `json:"product_reference"`
	TotalRemaining   decimal.Decimal `json:"total_remaining"`
	TotalOriginal    decimal.Decimal `json:"total_original"`
	LotCount         int64           `json:"lot_count"`
}

// Ratio returns remaining stock as a fraction of the original intake.
// Products that never received stock have no meaningful ratio; callers must
// check TotalOriginal first.
func (s *StockLevel) Ratio() decimal.Decimal {
	if s.TotalOriginal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return s.TotalRemaining.Div(s.TotalOriginal)
}

// LotRepository defines the interface for purchase-order lot persistence
type LotRepository interface {
	// FindByID finds a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderLot, error)

	// FindByIDs finds multiple lots by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*PurchaseOrderLot, error)

	// FindByReference finds a lot by its unique reference
	FindByReference(ctx context.Context, reference string) (*PurchaseOrderLot, error)

	// FindByProduct finds all lots for a product, oldest arrival first
	FindByProduct(ctx context.Context, productReference string) ([]*PurchaseOrderLot, error)

	// FindAvailableByProduct finds lots for a product that still have stock,
	// oldest arrival first
	FindAvailableByProduct(ctx context.Context, productReference string) ([]*PurchaseOrderLot, error)

	// FindAll finds all lots matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrderLot, error)

	// Save creates or updates a lot
	Save(ctx context.Context, lot *PurchaseOrderLot) error

	// SaveAll creates or updates multiple lots
	SaveAll(ctx context.Context, lots []*PurchaseOrderLot) error

	// Delete deletes a lot
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts lots matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByProduct checks whether any lot references the product
	ExistsByProduct(ctx context.Context, productReference string) (bool, error)

	// NextArrivalOrder returns the next value of the arrival sequence
	NextArrivalOrder(ctx context.Context) (int64, error)

	// StockLevelByProduct aggregates the lots of one product
	StockLevelByProduct(ctx context.Context, productReference string) (*StockLevel, error)

	// StockLevels aggregates lots per product across the whole ledger
	StockLevels(ctx context.Context) ([]StockLevel, error)
}
