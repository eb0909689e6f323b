package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/medsupply/backend/internal/application/inventory"
	"github.com/medsupply/backend/internal/domain/inventory"
)

// GormTransferScope implements TransferScope using GORM transactions. One
// transfer's reference check, lot decrements and record insert commit or
// roll back together.
type GormTransferScope struct {
	db *gorm.DB
}

// NewGormTransferScope creates a new GormTransferScope.
func NewGormTransferScope(db *gorm.DB) *GormTransferScope {
	return &GormTransferScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransferScope) Execute(ctx context.Context, fn func(repos appinv.TransferRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransferRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransferRepositories provides access to the repositories within a transaction.
type gormTransferRepositories struct {
	tx *gorm.DB
}

// LotRepo returns the lot repository scoped to the current transaction.
func (r *gormTransferRepositories) LotRepo() inventory.LotRepository {
	return NewGormLotRepository(r.tx)
}

// TransferRepo returns the transfer repository scoped to the current transaction.
func (r *gormTransferRepositories) TransferRepo() inventory.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

// Ensure GormTransferScope implements TransferScope
var _ appinv.TransferScope = (*GormTransferScope)(nil)

// Ensure gormTransferRepositories implements TransferRepositories
var _ appinv.TransferRepositories = (*gormTransferRepositories)(nil)
