package verification

import (
	"context"

	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/verification"
)

// TransactionScope provides transactional access to the repositories a batch
// verification touches. When a function is executed within a transaction
// scope, all repository operations are part of the same database transaction
// and commit or roll back atomically. The whole validate-then-deduct path of
// one batch runs inside a single scope so that no other writer can slip in
// between the availability check and the lot decrements.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
//
// Aggregate boundary notes:
//   - CouponRepo: the Coupon aggregate. Verification state changes are
//     persisted through it.
//   - LotRepo: the PurchaseOrderLot aggregate. Only the allocator's
//     deduct/restore walk mutates remaining quantities.
//   - AllocationRepo: append-only records pairing coupons with the lots
//     that served them; written at verification, deleted at reversal.
type TransactionalRepositories interface {
	// CouponRepo returns the coupon repository scoped to the current transaction
	CouponRepo() verification.CouponRepository
	// LotRepo returns the lot repository scoped to the current transaction
	LotRepo() inventory.LotRepository
	// AllocationRepo returns the allocation record repository scoped to the current transaction
	AllocationRepo() inventory.AllocationRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	couponRepo     verification.CouponRepository
	lotRepo        inventory.LotRepository
	allocationRepo inventory.AllocationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	couponRepo verification.CouponRepository,
	lotRepo inventory.LotRepository,
	allocationRepo inventory.AllocationRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		couponRepo:     couponRepo,
		lotRepo:        lotRepo,
		allocationRepo: allocationRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CouponRepo returns the coupon repository.
func (s *NoOpTransactionScope) CouponRepo() verification.CouponRepository {
	return s.couponRepo
}

// LotRepo returns the lot repository.
func (s *NoOpTransactionScope) LotRepo() inventory.LotRepository {
	return s.lotRepo
}

// AllocationRepo returns the allocation record repository.
func (s *NoOpTransactionScope) AllocationRepo() inventory.AllocationRepository {
	return s.allocationRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
