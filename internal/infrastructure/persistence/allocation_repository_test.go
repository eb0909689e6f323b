package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medsupply/backend/internal/domain/inventory"
)

func setupAllocationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.StockAllocation{})
	require.NoError(t, err)

	return db
}

func newTestAllocation(couponID, lotID uuid.UUID, quantity int64, verificationReference string) *inventory.StockAllocation {
	entry := inventory.LotDeduction{
		LotID:    lotID,
		Quantity: decimal.NewFromInt(quantity),
	}
	return inventory.NewStockAllocation(couponID, entry, "MED-001", verificationReference)
}

func TestGormAllocationRepository_SaveAllAndFind(t *testing.T) {
	db := setupAllocationTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()

	couponID := uuid.New()
	otherCouponID := uuid.New()
	lotA := uuid.New()
	lotB := uuid.New()

	require.NoError(t, repo.SaveAll(ctx, []*inventory.StockAllocation{
		newTestAllocation(couponID, lotA, 50, "VRF-2024-001"),
		newTestAllocation(couponID, lotB, 10, "VRF-2024-001"),
		newTestAllocation(otherCouponID, lotB, 5, "VRF-2024-002"),
	}))

	t.Run("finds the records of one coupon", func(t *testing.T) {
		allocations, err := repo.FindByCoupon(ctx, couponID)
		require.NoError(t, err)
		require.Len(t, allocations, 2)

		total := decimal.Zero
		for _, a := range allocations {
			assert.Equal(t, couponID, a.CouponID)
			assert.Equal(t, "VRF-2024-001", a.VerificationReference)
			total = total.Add(a.Quantity)
		}
		assert.True(t, total.Equal(decimal.NewFromInt(60)))
	})

	t.Run("finds the records of one verification reference", func(t *testing.T) {
		allocations, err := repo.FindByVerificationReference(ctx, "VRF-2024-002")
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, otherCouponID, allocations[0].CouponID)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		allocations, err := repo.FindByCoupon(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, allocations)
	})

	t.Run("saving an empty batch is a no-op", func(t *testing.T) {
		require.NoError(t, repo.SaveAll(ctx, nil))
	})
}

func TestGormAllocationRepository_ExistsByLot(t *testing.T) {
	db := setupAllocationTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()

	lotID := uuid.New()
	require.NoError(t, repo.SaveAll(ctx, []*inventory.StockAllocation{
		newTestAllocation(uuid.New(), lotID, 10, "VRF-2024-001"),
	}))

	t.Run("true when a record references the lot", func(t *testing.T) {
		exists, err := repo.ExistsByLot(ctx, lotID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("false otherwise", func(t *testing.T) {
		exists, err := repo.ExistsByLot(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormAllocationRepository_DeleteByCoupon(t *testing.T) {
	db := setupAllocationTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()

	couponID := uuid.New()
	keptCouponID := uuid.New()
	require.NoError(t, repo.SaveAll(ctx, []*inventory.StockAllocation{
		newTestAllocation(couponID, uuid.New(), 10, "VRF-2024-001"),
		newTestAllocation(couponID, uuid.New(), 20, "VRF-2024-001"),
		newTestAllocation(keptCouponID, uuid.New(), 5, "VRF-2024-002"),
	}))

	t.Run("removes only the coupon's records", func(t *testing.T) {
		err := repo.DeleteByCoupon(ctx, couponID)
		require.NoError(t, err)

		gone, err := repo.FindByCoupon(ctx, couponID)
		require.NoError(t, err)
		assert.Empty(t, gone)

		kept, err := repo.FindByCoupon(ctx, keptCouponID)
		require.NoError(t, err)
		assert.Len(t, kept, 1)
	})

	t.Run("deleting a coupon without records is a no-op", func(t *testing.T) {
		require.NoError(t, repo.DeleteByCoupon(ctx, uuid.New()))
	})
}
