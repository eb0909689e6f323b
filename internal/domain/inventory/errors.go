package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// InsufficientStockError is returned when a deduction request exceeds the
// stock available across all lots of a product. No lot is mutated when this
// error is returned.
type InsufficientStockError struct {
	ProductReference string
	Needed           decimal.Decimal
	Available        decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for %s: needed %s, available %s",
		e.ProductReference, e.Needed.String(), e.Available.String(),
	)
}

// Unwrap allows errors.Is checks against shared.ErrInsufficientStock
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// Shortfall returns how much the request exceeds the available stock
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Needed.Sub(e.Available)
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(productReference string, needed, available decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		ProductReference: productReference,
		Needed:           needed,
		Available:        available,
	}
}

// LotNotFoundError is returned during restoration when a recorded lot no
// longer exists. It applies to the single entry only; restoration of the
// remaining entries proceeds.
type LotNotFoundError struct {
	LotID uuid.UUID
}

// Error implements the error interface
func (e *LotNotFoundError) Error() string {
	return fmt.Sprintf("lot %s no longer exists", e.LotID)
}

// Unwrap allows errors.Is checks against shared.ErrNotFound
func (e *LotNotFoundError) Unwrap() error {
	return shared.ErrNotFound
}

// NewLotNotFoundError creates a new LotNotFoundError
func NewLotNotFoundError(lotID uuid.UUID) *LotNotFoundError {
	return &LotNotFoundError{LotID: lotID}
}

// AllocationIntegrityError is returned during restoration when putting the
// recorded amount back would push a lot past its original quantity, meaning
// the lot was mutated outside the allocation being reversed. The restorable
// portion is still applied; the discrepancy is surfaced to the caller.
type AllocationIntegrityError struct {
	LotID     uuid.UUID
	Requested decimal.Decimal
	Restored  decimal.Decimal
}

// Error implements the error interface
func (e *AllocationIntegrityError) Error() string {
	return fmt.Sprintf(
		"lot %s was modified outside this allocation: requested restore %s, applied %s",
		e.LotID, e.Requested.String(), e.Restored.String(),
	)
}

// Unwrap allows errors.Is checks against shared.ErrInvalidState
func (e *AllocationIntegrityError) Unwrap() error {
	return shared.ErrInvalidState
}

// NewAllocationIntegrityError creates a new AllocationIntegrityError
func NewAllocationIntegrityError(lotID uuid.UUID, requested, restored decimal.Decimal) *AllocationIntegrityError {
	return &AllocationIntegrityError{
		LotID:     lotID,
		Requested: requested,
		Restored:  restored,
	}
}
