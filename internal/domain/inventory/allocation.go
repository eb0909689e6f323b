package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// LotDeduction is a single entry of an allocation: the lot it drew from and
// the amount taken
type LotDeduction struct {
	LotID          uuid.UUID       `json:"lot_id"`
	LotReference   string          `json:"lot_reference"`
	Quantity       decimal.Decimal `json:"quantity"`
	RemainingInLot decimal.Decimal `json:"remaining_in_lot"`
	Exhausted      bool            `json:"exhausted"`
}

// Allocation is the outcome of one FIFO deduction: the lots consumed and the
// amount taken from each, in the order they were drained
type Allocation struct {
	ProductReference string          `json:"product_reference"`
	Quantity         decimal.Decimal `json:"quantity"`
	Entries          []LotDeduction  `json:"entries"`
}

// TotalAllocated sums the per-lot amounts; equals Quantity after a
// successful deduction
func (a *Allocation) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range a.Entries {
		total = total.Add(entry.Quantity)
	}
	return total
}

// StockAllocation is an immutable record of one lot deduction made while
// verifying a coupon. The rows for a coupon are the exact reversal plan for
// restoration: restore walks these records, never the current lot ordering.
type StockAllocation struct {
	shared.BaseEntity
	CouponID              uuid.UUID       `gorm:"type:uuid;not null;index:idx_allocations_coupon"`
	LotID                 uuid.UUID       `gorm:"type:uuid;not null;index:idx_allocations_lot"`
	ProductReference      string          `gorm:"type:varchar(50);not null"`
	Quantity              decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, amount taken from the lot
	VerificationReference string          `gorm:"type:varchar(100);not null;index:idx_allocations_verification"`
}

// TableName returns the table name for GORM
func (StockAllocation) TableName() string {
	return "stock_allocations"
}

// NewStockAllocation records one lot deduction for a verified coupon
func NewStockAllocation(couponID uuid.UUID, entry LotDeduction, productReference, verificationReference string) *StockAllocation {
	return &StockAllocation{
		BaseEntity:            shared.NewBaseEntity(),
		CouponID:              couponID,
		LotID:                 entry.LotID,
		ProductReference:      productReference,
		Quantity:              entry.Quantity,
		VerificationReference: verificationReference,
	}
}

// ToLotDeduction converts a persisted record back into an allocation entry
// for restoration
func (a *StockAllocation) ToLotDeduction() LotDeduction {
	return LotDeduction{
		LotID:    a.LotID,
		Quantity: a.Quantity,
	}
}
