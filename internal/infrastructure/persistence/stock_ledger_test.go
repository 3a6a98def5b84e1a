package persistence

import (
	"context"
	"testing"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockLedgerCentral(t *testing.T) {
	ctx := context.Background()

	t.Run("Get reads the product column and treats missing products as zero", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		p := seedProduct(t, db, "Notebook", "NB-400", catalog.CatalogStationery, 12)

		got, err := ledger.Get(ctx, stock.Central(catalog.CatalogStationery), p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got)

		got, err = ledger.Get(ctx, stock.Central(catalog.CatalogStationery), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("Get scopes by catalog", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		p := seedProduct(t, db, "Notebook", "NB-401", catalog.CatalogStationery, 12)

		got, err := ledger.Get(ctx, stock.Central(catalog.CatalogGeneral), p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("ApplyDelta clamps at zero and reports the applied delta", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		p := seedProduct(t, db, "Notebook", "NB-402", catalog.CatalogStationery, 5)
		scope := stock.Central(catalog.CatalogStationery)

		applied, err := ledger.ApplyDelta(ctx, scope, p.ID, -8)
		require.NoError(t, err)
		assert.Equal(t, int64(-5), applied)

		got, err := ledger.Get(ctx, scope, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("ApplyDelta on a missing product is a zero-applied no-op", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)

		applied, err := ledger.ApplyDelta(ctx, stock.Central(catalog.CatalogStationery), uuid.New(), 5)
		require.NoError(t, err)
		assert.Equal(t, int64(0), applied)
	})

	t.Run("SetQuantity requires an existing product", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		p := seedProduct(t, db, "Notebook", "NB-403", catalog.CatalogStationery, 5)
		scope := stock.Central(catalog.CatalogStationery)

		require.NoError(t, ledger.SetQuantity(ctx, scope, p.ID, 9))
		got, err := ledger.Get(ctx, scope, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(9), got)

		assert.Error(t, ledger.SetQuantity(ctx, scope, uuid.New(), 9))
	})

	t.Run("DecrementIfAvailable guards in the write itself", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		p := seedProduct(t, db, "Notebook", "NB-404", catalog.CatalogStationery, 3)
		scope := stock.Central(catalog.CatalogStationery)

		ok, err := ledger.DecrementIfAvailable(ctx, scope, p.ID, 3)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = ledger.DecrementIfAvailable(ctx, scope, p.ID, 1)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := ledger.Get(ctx, scope, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("RemoveIfZero is a central no-op", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		p := seedProduct(t, db, "Notebook", "NB-405", catalog.CatalogStationery, 0)

		require.NoError(t, ledger.RemoveIfZero(ctx, stock.Central(catalog.CatalogStationery), p.ID))

		var count int64
		require.NoError(t, db.Model(&catalog.Product{}).Where("id = ?", p.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestStockLedgerCollege(t *testing.T) {
	ctx := context.Background()
	collegeID := uuid.New()
	scope := stock.AtCollege(collegeID, catalog.CatalogStationery)

	t.Run("absent cells read as zero", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)

		got, err := ledger.Get(ctx, scope, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("positive delta creates the entry", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		productID := uuid.New()

		applied, err := ledger.ApplyDelta(ctx, scope, productID, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), applied)

		got, err := ledger.Get(ctx, scope, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got)
	})

	t.Run("negative delta clamps at zero", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		productID := uuid.New()
		_, err := ledger.ApplyDelta(ctx, scope, productID, 4)
		require.NoError(t, err)

		applied, err := ledger.ApplyDelta(ctx, scope, productID, -10)
		require.NoError(t, err)
		assert.Equal(t, int64(-4), applied)

		got, err := ledger.Get(ctx, scope, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("cells are isolated per college and catalog", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		productID := uuid.New()
		_, err := ledger.ApplyDelta(ctx, scope, productID, 5)
		require.NoError(t, err)

		other, err := ledger.Get(ctx, stock.AtCollege(uuid.New(), catalog.CatalogStationery), productID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), other)

		otherKind, err := ledger.Get(ctx, stock.AtCollege(collegeID, catalog.CatalogGeneral), productID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), otherKind)
	})

	t.Run("SetQuantity upserts the cell", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		productID := uuid.New()

		require.NoError(t, ledger.SetQuantity(ctx, scope, productID, 11))
		got, err := ledger.Get(ctx, scope, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(11), got)

		require.NoError(t, ledger.SetQuantity(ctx, scope, productID, 2))
		got, err = ledger.Get(ctx, scope, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got)
	})

	t.Run("RemoveIfZero deletes only exhausted cells", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		productID := uuid.New()
		require.NoError(t, ledger.SetQuantity(ctx, scope, productID, 3))

		require.NoError(t, ledger.RemoveIfZero(ctx, scope, productID))
		got, err := ledger.Get(ctx, scope, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got)

		require.NoError(t, ledger.SetQuantity(ctx, scope, productID, 0))
		require.NoError(t, ledger.RemoveIfZero(ctx, scope, productID))

		snapshot, err := ledger.Snapshot(ctx, scope)
		require.NoError(t, err)
		assert.Empty(t, snapshot)
	})

	t.Run("Snapshot returns only non-zero cells", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		productA := uuid.New()
		productB := uuid.New()
		require.NoError(t, ledger.SetQuantity(ctx, scope, productA, 4))
		require.NoError(t, ledger.SetQuantity(ctx, scope, productB, 0))

		snapshot, err := ledger.Snapshot(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int64{productA: 4}, snapshot)
	})
}

func TestStockLedgerBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("ApplyBatch reports per-product applied deltas after clamping", func(t *testing.T) {
		db := setupTestDB(t)
		ledger := NewGormStockLedger(db)
		collegeID := uuid.New()
		scope := stock.AtCollege(collegeID, catalog.CatalogStationery)

		rich := uuid.New()
		poor := uuid.New()
		require.NoError(t, ledger.SetQuantity(ctx, scope, rich, 10))
		require.NoError(t, ledger.SetQuantity(ctx, scope, poor, 2))

		deltas := stock.DeltaSet{rich: -4, poor: -5}
		applied, err := ledger.ApplyBatch(ctx, scope, deltas)
		require.NoError(t, err)

		assert.Equal(t, int64(-4), applied[rich])
		assert.Equal(t, int64(-2), applied[poor])

		got, err := ledger.GetMany(ctx, scope, []uuid.UUID{rich, poor})
		require.NoError(t, err)
		assert.Equal(t, int64(6), got[rich])
		assert.Equal(t, int64(0), got[poor])
	})
}
