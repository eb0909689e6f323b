package inventory

import (
	"context"

	"github.com/medsupply/backend/internal/domain/inventory"
)

// TransferScope provides transactional access to the repositories a stock
// transfer touches. The reference check, the FIFO lot decrements and the
// transfer record commit or roll back together, so a transfer can never be
// recorded without its deduction or the other way around.
type TransferScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransferRepositories) error) error
}

// TransferRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransferRepositories interface {
	// LotRepo returns the lot repository scoped to the current transaction
	LotRepo() inventory.LotRepository
	// TransferRepo returns the transfer repository scoped to the current transaction
	TransferRepo() inventory.TransferRepository
}

// NoOpTransferScope is a transfer scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransferScope struct {
	lotRepo      inventory.LotRepository
	transferRepo inventory.TransferRepository
}

// NewNoOpTransferScope creates a NoOpTransferScope with the given repositories.
func NewNoOpTransferScope(
	lotRepo inventory.LotRepository,
	transferRepo inventory.TransferRepository,
) *NoOpTransferScope {
	return &NoOpTransferScope{
		lotRepo:      lotRepo,
		transferRepo: transferRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransferScope) Execute(_ context.Context, fn func(repos TransferRepositories) error) error {
	return fn(s)
}

// LotRepo returns the lot repository.
func (s *NoOpTransferScope) LotRepo() inventory.LotRepository {
	return s.lotRepo
}

// TransferRepo returns the transfer repository.
func (s *NoOpTransferScope) TransferRepo() inventory.TransferRepository {
	return s.transferRepo
}

// Ensure NoOpTransferScope implements both interfaces
var _ TransferScope = (*NoOpTransferScope)(nil)
var _ TransferRepositories = (*NoOpTransferScope)(nil)
