package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// StockTransfer records a direct movement of stock out of the ledger to a
// distribution location, outside the coupon workflow. The deduction behind
// it is folded into the lots through the same FIFO walk coupons use, but a
// transfer keeps no per-lot records: it cannot be reversed, so the quantity
// and date are captured here for the trail.
type StockTransfer struct {
	shared.BaseAggregateRoot
	TransferReference string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"transfer_reference"`
	ProductReference  string          `gorm:"type:varchar(50);not null;index:idx_transfers_product" json:"product_reference"`
	LocationCode      string          `gorm:"type:varchar(50);not null;index:idx_transfers_location" json:"location_code"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	TransferDate      time.Time       `gorm:"not null;index:idx_transfers_date" json:"transfer_date"`
	Notes             string          `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the table name for GORM
func (StockTransfer) TableName() string {
	return "stock_transfers"
}

// NewStockTransfer creates a transfer record. A zero transfer date defaults
// to the time of recording.
func NewStockTransfer(transferReference, productReference, locationCode string, quantity decimal.Decimal, transferDate time.Time) (*StockTransfer, error) {
	transferReference = strings.ToUpper(strings.TrimSpace(transferReference))
	productReference = strings.ToUpper(strings.TrimSpace(productReference))
	locationCode = strings.ToUpper(strings.TrimSpace(locationCode))

	if transferReference == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_REFERENCE", "Transfer reference cannot be empty")
	}
	if len(transferReference) > 100 {
		return nil, shared.NewDomainError("INVALID_TRANSFER_REFERENCE", "Transfer reference cannot exceed 100 characters")
	}
	if productReference == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_REFERENCE", "Product reference cannot be empty")
	}
	if locationCode == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION_CODE", "Location code cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}
	if transferDate.IsZero() {
		transferDate = time.Now()
	}

	transfer := &StockTransfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransferReference: transferReference,
		ProductReference:  productReference,
		LocationCode:      locationCode,
		Quantity:          quantity,
		TransferDate:      transferDate,
	}

	transfer.AddDomainEvent(NewStockTransferredEvent(transfer))
	return transfer, nil
}
