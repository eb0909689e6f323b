package persistence

import (
	"context"

	appver "github.com/medsupply/backend/internal/application/verification"
	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/verification"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations: one batch
// verification's availability checks, lot decrements, allocation rows and
// coupon stamps commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appver.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// CouponRepo returns the coupon repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CouponRepo() verification.CouponRepository {
	return NewGormCouponRepository(r.tx)
}

// LotRepo returns the lot repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LotRepo() inventory.LotRepository {
	return NewGormLotRepository(r.tx)
}

// AllocationRepo returns the allocation record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AllocationRepo() inventory.AllocationRepository {
	return NewGormAllocationRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appver.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appver.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
