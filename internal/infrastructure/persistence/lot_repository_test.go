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
	"github.com/medsupply/backend/internal/domain/shared"
)

func setupLotTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.PurchaseOrderLot{})
	require.NoError(t, err)

	return db
}

func mustNewLot(t *testing.T, productReference, reference string, quantity float64, arrivalOrder int64) *inventory.PurchaseOrderLot {
	t.Helper()

	lot, err := inventory.NewPurchaseOrderLot(productReference, reference, decimal.NewFromFloat(quantity), arrivalOrder)
	require.NoError(t, err)
	lot.ClearDomainEvents()
	return lot
}

func TestGormLotRepository_SaveAndFind(t *testing.T) {
	db := setupLotTestDB(t)
	repo := NewGormLotRepository(db)
	ctx := context.Background()

	t.Run("saves and finds by ID", func(t *testing.T) {
		lot := mustNewLot(t, "MED-001", "PO-2024-001", 50, 1)

		err := repo.Save(ctx, lot)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, "MED-001", found.ProductReference)
		assert.Equal(t, "PO-2024-001", found.Reference)
		assert.True(t, found.OriginalQuantity.Equal(decimal.NewFromInt(50)))
		assert.True(t, found.RemainingQuantity.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, int64(1), found.ArrivalOrder)
	})

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds by reference", func(t *testing.T) {
		found, err := repo.FindByReference(ctx, "PO-2024-001")
		require.NoError(t, err)
		assert.Equal(t, "PO-2024-001", found.Reference)
	})

	t.Run("returns ErrNotFound for unknown reference", func(t *testing.T) {
		_, err := repo.FindByReference(ctx, "PO-9999-999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("matches lot references as issued", func(t *testing.T) {
		_, err := repo.FindByReference(ctx, "po-2024-001")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("persists deductions through Save", func(t *testing.T) {
		lot, err := repo.FindByReference(ctx, "PO-2024-001")
		require.NoError(t, err)

		require.NoError(t, lot.Deduct(decimal.NewFromInt(20)))
		require.NoError(t, repo.Save(ctx, lot))

		found, err := repo.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.True(t, found.RemainingQuantity.Equal(decimal.NewFromInt(30)))
		assert.True(t, found.OriginalQuantity.Equal(decimal.NewFromInt(50)))
	})
}

func TestGormLotRepository_FindByProduct(t *testing.T) {
	db := setupLotTestDB(t)
	repo := NewGormLotRepository(db)
	ctx := context.Background()

	// Inserted out of arrival order on purpose
	lotB := mustNewLot(t, "MED-001", "PO-B", 30, 2)
	lotC := mustNewLot(t, "MED-001", "PO-C", 20, 3)
	lotA := mustNewLot(t, "MED-001", "PO-A", 50, 1)
	other := mustNewLot(t, "MED-002", "PO-X", 10, 4)

	require.NoError(t, repo.SaveAll(ctx, []*inventory.PurchaseOrderLot{lotB, lotC, lotA, other}))

	t.Run("returns lots oldest arrival first", func(t *testing.T) {
		lots, err := repo.FindByProduct(ctx, "MED-001")
		require.NoError(t, err)
		require.Len(t, lots, 3)
		assert.Equal(t, "PO-A", lots[0].Reference)
		assert.Equal(t, "PO-B", lots[1].Reference)
		assert.Equal(t, "PO-C", lots[2].Reference)
	})

	t.Run("folds product reference case", func(t *testing.T) {
		lots, err := repo.FindByProduct(ctx, "med-001")
		require.NoError(t, err)
		assert.Len(t, lots, 3)
	})

	t.Run("returns empty slice for unknown product", func(t *testing.T) {
		lots, err := repo.FindByProduct(ctx, "MED-404")
		require.NoError(t, err)
		assert.Empty(t, lots)
	})

	t.Run("available excludes exhausted lots", func(t *testing.T) {
		require.NoError(t, lotA.Deduct(decimal.NewFromInt(50)))
		require.NoError(t, repo.Save(ctx, lotA))

		lots, err := repo.FindAvailableByProduct(ctx, "MED-001")
		require.NoError(t, err)
		require.Len(t, lots, 2)
		assert.Equal(t, "PO-B", lots[0].Reference)
		assert.Equal(t, "PO-C", lots[1].Reference)
	})

	t.Run("finds by IDs", func(t *testing.T) {
		lots, err := repo.FindByIDs(ctx, []uuid.UUID{lotC.ID, lotB.ID})
		require.NoError(t, err)
		require.Len(t, lots, 2)
		assert.Equal(t, "PO-B", lots[0].Reference)
		assert.Equal(t, "PO-C", lots[1].Reference)
	})

	t.Run("finds nothing for empty ID list", func(t *testing.T) {
		lots, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, lots)
	})

	t.Run("exists by product", func(t *testing.T) {
		exists, err := repo.ExistsByProduct(ctx, "MED-002")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByProduct(ctx, "MED-404")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormLotRepository_NextArrivalOrder(t *testing.T) {
	db := setupLotTestDB(t)
	repo := NewGormLotRepository(db)
	ctx := context.Background()

	t.Run("starts at one for an empty ledger", func(t *testing.T) {
		next, err := repo.NextArrivalOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), next)
	})

	t.Run("advances past the highest arrival order", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, mustNewLot(t, "MED-001", "PO-1", 10, 1)))
		require.NoError(t, repo.Save(ctx, mustNewLot(t, "MED-002", "PO-7", 10, 7)))

		next, err := repo.NextArrivalOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(8), next)
	})
}

func TestGormLotRepository_StockLevels(t *testing.T) {
	db := setupLotTestDB(t)
	repo := NewGormLotRepository(db)
	ctx := context.Background()

	lotA := mustNewLot(t, "MED-001", "PO-A", 50, 1)
	lotB := mustNewLot(t, "MED-001", "PO-B", 30, 2)
	lotX := mustNewLot(t, "MED-002", "PO-X", 100, 3)
	require.NoError(t, lotA.Deduct(decimal.NewFromInt(45)))
	require.NoError(t, repo.SaveAll(ctx, []*inventory.PurchaseOrderLot{lotA, lotB, lotX}))

	t.Run("aggregates one product", func(t *testing.T) {
		level, err := repo.StockLevelByProduct(ctx, "MED-001")
		require.NoError(t, err)
		assert.Equal(t, "MED-001", level.ProductReference)
		assert.True(t, level.TotalRemaining.Equal(decimal.NewFromInt(35)))
		assert.True(t, level.TotalOriginal.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, int64(2), level.LotCount)
	})

	t.Run("product without lots yields a zero level", func(t *testing.T) {
		level, err := repo.StockLevelByProduct(ctx, "MED-404")
		require.NoError(t, err)
		assert.Equal(t, "MED-404", level.ProductReference)
		assert.True(t, level.TotalRemaining.IsZero())
		assert.True(t, level.TotalOriginal.IsZero())
		assert.Equal(t, int64(0), level.LotCount)
	})

	t.Run("aggregates the whole ledger by product", func(t *testing.T) {
		levels, err := repo.StockLevels(ctx)
		require.NoError(t, err)
		require.Len(t, levels, 2)
		assert.Equal(t, "MED-001", levels[0].ProductReference)
		assert.True(t, levels[0].TotalRemaining.Equal(decimal.NewFromInt(35)))
		assert.Equal(t, "MED-002", levels[1].ProductReference)
		assert.True(t, levels[1].TotalRemaining.Equal(decimal.NewFromInt(100)))
	})
}

func TestGormLotRepository_FindAll(t *testing.T) {
	db := setupLotTestDB(t)
	repo := NewGormLotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, []*inventory.PurchaseOrderLot{
		mustNewLot(t, "MED-001", "PO-2024-001", 50, 1),
		mustNewLot(t, "MED-001", "PO-2024-002", 30, 2),
		mustNewLot(t, "MED-002", "PO-2024-003", 20, 3),
	}))

	t.Run("lists with pagination", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "arrival_order"
		filter.OrderDir = "asc"
		filter.PageSize = 2

		lots, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, lots, 2)
		assert.Equal(t, "PO-2024-001", lots[0].Reference)

		filter.Page = 2
		lots, err = repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.Equal(t, "PO-2024-003", lots[0].Reference)
	})

	t.Run("searches by reference", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "2024-003"

		lots, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.Equal(t, "PO-2024-003", lots[0].Reference)
	})

	t.Run("counts with search", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "MED-001"

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("ignores unknown sort fields", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "garbage; DROP TABLE purchase_order_lots"

		_, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
	})
}

func TestGormLotRepository_Delete(t *testing.T) {
	db := setupLotTestDB(t)
	repo := NewGormLotRepository(db)
	ctx := context.Background()

	t.Run("deletes an existing lot", func(t *testing.T) {
		lot := mustNewLot(t, "MED-001", "PO-DEL", 10, 1)
		require.NoError(t, repo.Save(ctx, lot))

		err := repo.Delete(ctx, lot.ID)
		require.NoError(t, err)

		_, err = repo.FindByID(ctx, lot.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns ErrNotFound for unknown lot", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
