package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/shared"
	"github.com/medsupply/backend/internal/infrastructure/persistence"
)

// receiveLot persists a lot at the back of the arrival sequence
func receiveLot(t *testing.T, repo inventory.LotRepository, productReference, reference string, quantity int64) *inventory.PurchaseOrderLot {
	t.Helper()

	ctx := context.Background()
	order, err := repo.NextArrivalOrder(ctx)
	require.NoError(t, err)

	lot, err := inventory.NewPurchaseOrderLot(productReference, reference, decimal.NewFromInt(quantity), order)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, lot))
	return lot
}

// TestLotRepository_Integration tests the lot repository against a real SQLite database
func TestLotRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormLotRepository(testDB.DB)
	ctx := context.Background()

	t.Run("Save and FindByID", func(t *testing.T) {
		lot := receiveLot(t, repo, "AMX-500", "PO-2024-001", 50)

		found, err := repo.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, lot.ID, found.ID)
		assert.Equal(t, "AMX-500", found.ProductReference)
		assert.Equal(t, "PO-2024-001", found.Reference)
		assert.True(t, found.OriginalQuantity.Equal(decimal.NewFromInt(50)))
		assert.True(t, found.RemainingQuantity.Equal(decimal.NewFromInt(50)))
	})

	t.Run("FindByReference matches lot references as issued", func(t *testing.T) {
		receiveLot(t, repo, "AMX-500", "PO-2024-002", 30)

		found, err := repo.FindByReference(ctx, "PO-2024-002")
		require.NoError(t, err)
		assert.Equal(t, "PO-2024-002", found.Reference)

		// Lot references are not case-folded
		_, err = repo.FindByReference(ctx, "po-2024-002")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("NextArrivalOrder advances across products", func(t *testing.T) {
		before, err := repo.NextArrivalOrder(ctx)
		require.NoError(t, err)

		receiveLot(t, repo, "IBU-200", "PO-2024-003", 10)

		after, err := repo.NextArrivalOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})

	t.Run("FindAvailableByProduct walks oldest arrival first and skips drained lots", func(t *testing.T) {
		first := receiveLot(t, repo, "PAR-500", "PO-2024-010", 50)
		second := receiveLot(t, repo, "PAR-500", "PO-2024-011", 30)
		third := receiveLot(t, repo, "PAR-500", "PO-2024-012", 20)

		require.NoError(t, first.Deduct(decimal.NewFromInt(50)))
		require.NoError(t, repo.Save(ctx, first))

		available, err := repo.FindAvailableByProduct(ctx, "PAR-500")
		require.NoError(t, err)
		require.Len(t, available, 2)
		assert.Equal(t, second.ID, available[0].ID)
		assert.Equal(t, third.ID, available[1].ID)

		// The product reference is case-folded like everywhere else
		folded, err := repo.FindAvailableByProduct(ctx, "par-500")
		require.NoError(t, err)
		assert.Len(t, folded, 2)
	})

	t.Run("StockLevelByProduct aggregates remaining and original", func(t *testing.T) {
		first := receiveLot(t, repo, "MTF-850", "PO-2024-020", 40)
		receiveLot(t, repo, "MTF-850", "PO-2024-021", 25)

		require.NoError(t, first.Deduct(decimal.NewFromInt(10)))
		require.NoError(t, repo.Save(ctx, first))

		level, err := repo.StockLevelByProduct(ctx, "MTF-850")
		require.NoError(t, err)
		assert.Equal(t, "MTF-850", level.ProductReference)
		assert.True(t, level.TotalRemaining.Equal(decimal.NewFromInt(55)))
		assert.True(t, level.TotalOriginal.Equal(decimal.NewFromInt(65)))
		assert.Equal(t, int64(2), level.LotCount)
	})

	t.Run("StockLevelByProduct reports zero for a product without lots", func(t *testing.T) {
		level, err := repo.StockLevelByProduct(ctx, "ghost-1")
		require.NoError(t, err)
		assert.Equal(t, "GHOST-1", level.ProductReference)
		assert.True(t, level.TotalRemaining.IsZero())
		assert.True(t, level.TotalOriginal.IsZero())
		assert.Equal(t, int64(0), level.LotCount)
	})

	t.Run("Delete removes the lot", func(t *testing.T) {
		lot := receiveLot(t, repo, "AMX-500", "PO-2024-030", 5)

		require.NoError(t, repo.Delete(ctx, lot.ID))

		_, err := repo.FindByID(ctx, lot.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// TestAllocationRepository_Integration tests the allocation record repository
// against a real SQLite database
func TestAllocationRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	lotRepo := persistence.NewGormLotRepository(testDB.DB)
	repo := persistence.NewGormAllocationRepository(testDB.DB)
	ctx := context.Background()

	firstLot := receiveLot(t, lotRepo, "AMX-500", "PO-2024-101", 50)
	secondLot := receiveLot(t, lotRepo, "AMX-500", "PO-2024-102", 30)

	couponID := uuid.New()
	otherCouponID := uuid.New()

	record := func(coupon uuid.UUID, lot *inventory.PurchaseOrderLot, quantity int64, reference string) *inventory.StockAllocation {
		entry := inventory.LotDeduction{LotID: lot.ID, Quantity: decimal.NewFromInt(quantity)}
		return inventory.NewStockAllocation(coupon, entry, lot.ProductReference, reference)
	}

	t.Run("SaveAll and FindByCoupon", func(t *testing.T) {
		records := []*inventory.StockAllocation{
			record(couponID, firstLot, 50, "VER-2024-100"),
			record(couponID, secondLot, 10, "VER-2024-100"),
		}
		require.NoError(t, repo.SaveAll(ctx, records))

		found, err := repo.FindByCoupon(ctx, couponID)
		require.NoError(t, err)
		require.Len(t, found, 2)

		total := decimal.Zero
		for _, allocation := range found {
			assert.Equal(t, couponID, allocation.CouponID)
			assert.Equal(t, "VER-2024-100", allocation.VerificationReference)
			total = total.Add(allocation.Quantity)
		}
		assert.True(t, total.Equal(decimal.NewFromInt(60)))
	})

	t.Run("FindByVerificationReference spans coupons", func(t *testing.T) {
		require.NoError(t, repo.SaveAll(ctx, []*inventory.StockAllocation{
			record(otherCouponID, secondLot, 5, "VER-2024-100"),
		}))

		found, err := repo.FindByVerificationReference(ctx, "VER-2024-100")
		require.NoError(t, err)
		assert.Len(t, found, 3)

		none, err := repo.FindByVerificationReference(ctx, "VER-2024-999")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("ExistsByLot", func(t *testing.T) {
		exists, err := repo.ExistsByLot(ctx, firstLot.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByLot(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("DeleteByCoupon removes only that coupon's records", func(t *testing.T) {
		require.NoError(t, repo.DeleteByCoupon(ctx, couponID))

		found, err := repo.FindByCoupon(ctx, couponID)
		require.NoError(t, err)
		assert.Empty(t, found)

		remaining, err := repo.FindByCoupon(ctx, otherCouponID)
		require.NoError(t, err)
		assert.Len(t, remaining, 1)
	})
}
