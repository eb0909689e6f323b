package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// SortLotsFIFO orders lots oldest-first by arrival order, ties broken by lot
// ID so the walk is deterministic
func SortLotsFIFO(lots []*PurchaseOrderLot) {
	sort.Slice(lots, func(i, j int) bool {
		if lots[i].ArrivalOrder != lots[j].ArrivalOrder {
			return lots[i].ArrivalOrder < lots[j].ArrivalOrder
		}
		return lots[i].ID.String() < lots[j].ID.String()
	})
}

// AvailableStock sums the remaining quantity across the given lots
func AvailableStock(lots []*PurchaseOrderLot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.RemainingQuantity)
	}
	return total
}

// ValidateAvailability checks whether quantity can be served from the given
// lots without touching any of them. It returns the shortfall when the stock
// is insufficient, zero otherwise.
func ValidateAvailability(quantity decimal.Decimal, lots []*PurchaseOrderLot) (bool, decimal.Decimal) {
	available := AvailableStock(lots)
	if available.GreaterThanOrEqual(quantity) {
		return true, decimal.Zero
	}
	return false, quantity.Sub(available)
}

// PlanDeduction walks the lots oldest-first and computes which lots would
// serve the requested quantity. It never mutates a lot: when the total
// remaining stock cannot cover the request it returns InsufficientStockError
// and the lots are exactly as they were.
func PlanDeduction(productReference string, quantity decimal.Decimal, lots []*PurchaseOrderLot) (*Allocation, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	available := AvailableStock(lots)
	if available.LessThan(quantity) {
		return nil, NewInsufficientStockError(productReference, quantity, available)
	}

	sorted := make([]*PurchaseOrderLot, len(lots))
	copy(sorted, lots)
	SortLotsFIFO(sorted)

	entries := make([]LotDeduction, 0)
	remaining := quantity

	for _, lot := range sorted {
		if remaining.IsZero() {
			break
		}
		if lot.RemainingQuantity.LessThanOrEqual(decimal.Zero) {
			continue
		}

		take := decimal.Min(remaining, lot.RemainingQuantity)
		remainingInLot := lot.RemainingQuantity.Sub(take)

		entries = append(entries, LotDeduction{
			LotID:          lot.ID,
			LotReference:   lot.Reference,
			Quantity:       take,
			RemainingInLot: remainingInLot,
			Exhausted:      remainingInLot.IsZero(),
		})
		remaining = remaining.Sub(take)
	}

	return &Allocation{
		ProductReference: productReference,
		Quantity:         quantity,
		Entries:          entries,
	}, nil
}

// ApplyAllocation executes a planned allocation against the lot entities.
// Each entry deducts from the lot it was planned against.
func ApplyAllocation(allocation *Allocation, lots []*PurchaseOrderLot) error {
	if allocation == nil {
		return shared.NewDomainError("INVALID_ALLOCATION", "Allocation cannot be nil")
	}

	byID := lotsByID(lots)
	for _, entry := range allocation.Entries {
		lot, ok := byID[entry.LotID]
		if !ok {
			return NewLotNotFoundError(entry.LotID)
		}
		if err := lot.Deduct(entry.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Deduct serves quantity from the lots oldest-first. It is two-phase: the
// plan is computed against unmodified lots, and only a plan that fully covers
// the request is applied. On InsufficientStockError no lot has changed.
func Deduct(productReference string, quantity decimal.Decimal, lots []*PurchaseOrderLot) (*Allocation, error) {
	allocation, err := PlanDeduction(productReference, quantity, lots)
	if err != nil {
		return nil, err
	}
	if err := ApplyAllocation(allocation, lots); err != nil {
		return nil, err
	}
	return allocation, nil
}

// RestoreReport describes the outcome of reversing an allocation. Issues
// holds one typed error per entry that could not be reversed cleanly; the
// other entries are applied regardless.
type RestoreReport struct {
	Requested decimal.Decimal
	Restored  decimal.Decimal
	Issues    []error
}

// Clean reports whether every entry was reversed exactly
func (r *RestoreReport) Clean() bool {
	return len(r.Issues) == 0
}

// Restore reverses a recorded allocation entry by entry, walking the record
// newest-first. Each entry is independent: a missing lot yields a
// LotNotFoundError for that entry, a lot that would overflow its original
// quantity is topped up to the original and yields an
// AllocationIntegrityError. Processing always continues through the whole
// record; the caller inspects the report to decide what to do about issues.
// Restore must not be called twice for the same allocation.
func Restore(entries []LotDeduction, lots []*PurchaseOrderLot) *RestoreReport {
	report := &RestoreReport{
		Requested: decimal.Zero,
		Restored:  decimal.Zero,
		Issues:    make([]error, 0),
	}

	byID := lotsByID(lots)
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		report.Requested = report.Requested.Add(entry.Quantity)

		lot, ok := byID[entry.LotID]
		if !ok {
			report.Issues = append(report.Issues, NewLotNotFoundError(entry.LotID))
			continue
		}

		restored, err := lot.Return(entry.Quantity)
		if err != nil {
			report.Issues = append(report.Issues, err)
			continue
		}
		report.Restored = report.Restored.Add(restored)
		if restored.LessThan(entry.Quantity) {
			report.Issues = append(report.Issues, NewAllocationIntegrityError(lot.ID, entry.Quantity, restored))
		}
	}

	return report
}

func lotsByID(lots []*PurchaseOrderLot) map[uuid.UUID]*PurchaseOrderLot {
	byID := make(map[uuid.UUID]*PurchaseOrderLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}
	return byID
}
