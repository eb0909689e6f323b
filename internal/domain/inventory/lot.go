package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// PurchaseOrderLot is a received delivery of a single product. Each lot keeps
// the quantity it arrived with and the quantity still on the shelf; the gap
// between the two is what allocations have consumed so far.
type PurchaseOrderLot struct {
	shared.BaseAggregateRoot
	ProductReference  string          `gorm:"type:varchar(50);not null;index:idx_lots_product_arrival,priority:1" json:"product_reference"`
	Reference         string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"reference"`
	OriginalQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"original_quantity"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"remaining_quantity"`
	ArrivalOrder      int64           `gorm:"not null;index:idx_lots_product_arrival,priority:2" json:"arrival_order"`
	ReceivedBy        string          `gorm:"type:varchar(100)" json:"received_by,omitempty"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLot) TableName() string {
	return "purchase_order_lots"
}

// NewPurchaseOrderLot creates a lot from a received delivery. The lot starts
// full: remaining quantity equals original quantity.
func NewPurchaseOrderLot(productReference, reference string, quantity decimal.Decimal, arrivalOrder int64) (*PurchaseOrderLot, error) {
	productReference = strings.ToUpper(strings.TrimSpace(productReference))
	reference = strings.TrimSpace(reference)

	if productReference == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_REFERENCE", "Product reference cannot be empty")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_LOT_REFERENCE", "Lot reference cannot be empty")
	}
	if len(reference) > 100 {
		return nil, shared.NewDomainError("INVALID_LOT_REFERENCE", "Lot reference cannot exceed 100 characters")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if arrivalOrder < 0 {
		return nil, shared.NewDomainError("INVALID_ARRIVAL_ORDER", "Arrival order cannot be negative")
	}

	lot := &PurchaseOrderLot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductReference:  productReference,
		Reference:         reference,
		OriginalQuantity:  quantity,
		RemainingQuantity: quantity,
		ArrivalOrder:      arrivalOrder,
	}

	lot.AddDomainEvent(NewLotReceivedEvent(lot))
	return lot, nil
}

// Available returns the quantity still deductible from this lot
func (l *PurchaseOrderLot) Available() decimal.Decimal {
	return l.RemainingQuantity
}

// Consumed returns how much of the original quantity has been allocated
func (l *PurchaseOrderLot) Consumed() decimal.Decimal {
	return l.OriginalQuantity.Sub(l.RemainingQuantity)
}

// IsExhausted reports whether the lot has no stock left
func (l *PurchaseOrderLot) IsExhausted() bool {
	return l.RemainingQuantity.LessThanOrEqual(decimal.Zero)
}

// Deduct removes quantity from the lot. The amount must not exceed the
// remaining quantity; callers are expected to plan deductions first.
func (l *PurchaseOrderLot) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if quantity.GreaterThan(l.RemainingQuantity) {
		return shared.NewDomainError("INSUFFICIENT_LOT_STOCK", "Deduction exceeds remaining lot quantity")
	}

	l.RemainingQuantity = l.RemainingQuantity.Sub(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	if l.IsExhausted() {
		l.AddDomainEvent(NewLotDepletedEvent(l))
	}
	return nil
}

// Return puts quantity back onto the lot, clamping at the original quantity.
// It returns the amount actually restored, which is smaller than the request
// when the lot would otherwise overflow its original quantity.
func (l *PurchaseOrderLot) Return(quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}

	headroom := l.OriginalQuantity.Sub(l.RemainingQuantity)
	restored := decimal.Min(quantity, headroom)
	if restored.GreaterThan(decimal.Zero) {
		l.RemainingQuantity = l.RemainingQuantity.Add(restored)
		l.UpdatedAt = time.Now()
		l.IncrementVersion()
	}
	return restored, nil
}
