package sales

import (
	"testing"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	collegeID := uuid.New()

	t.Run("creates a purchase with a college", func(t *testing.T) {
		tx, err := NewTransaction(KindPurchase, &collegeID, nil, true)
		require.NoError(t, err)

		assert.Equal(t, KindPurchase, tx.Kind)
		assert.True(t, tx.IsPaid)
		assert.False(t, tx.StockDeducted)
		assert.True(t, tx.TotalAmount.IsZero())
	})

	t.Run("purchase without a college fails with location required", func(t *testing.T) {
		_, err := NewTransaction(KindPurchase, nil, nil, true)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeLocationRequired, domainErr.Code)
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		_, err := NewTransaction(TransactionKind("REFUND"), &collegeID, nil, false)
		assert.Error(t, err)
	})
}

func TestReplaceItems(t *testing.T) {
	collegeID := uuid.New()

	t.Run("computes total and links children", func(t *testing.T) {
		tx, err := NewTransaction(KindPurchase, &collegeID, nil, true)
		require.NoError(t, err)

		items := []TransactionItem{
			{
				ProductID:    uuid.New(),
				NameSnapshot: "Notebook",
				Catalog:      catalog.CatalogStationery,
				Quantity:     2,
				UnitPrice:    decimal.NewFromInt(50),
				LineTotal:    decimal.NewFromInt(100),
			},
			{
				ProductID:    uuid.New(),
				NameSnapshot: "Kit",
				Catalog:      catalog.CatalogStationery,
				Quantity:     1,
				UnitPrice:    decimal.NewFromInt(80),
				LineTotal:    decimal.NewFromInt(80),
				IsSet:        true,
				Components: []SetComponentRecord{
					{ComponentID: uuid.New(), NameSnapshot: "Pen", Quantity: 2, Taken: true},
				},
			},
		}
		require.NoError(t, tx.ReplaceItems(items))

		assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(180)))
		for _, item := range tx.Items {
			assert.NotEqual(t, uuid.Nil, item.ID)
			assert.Equal(t, tx.ID, item.TransactionID)
			for _, component := range item.Components {
				assert.Equal(t, item.ID, component.TransactionItemID)
			}
		}
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		tx, err := NewTransaction(KindPurchase, &collegeID, nil, true)
		require.NoError(t, err)
		assert.Error(t, tx.ReplaceItems(nil))
	})
}

func TestRestoreDeltas(t *testing.T) {
	collegeID := uuid.New()

	t.Run("plain items restore their deducted quantity", func(t *testing.T) {
		tx, err := NewTransaction(KindPurchase, &collegeID, nil, true)
		require.NoError(t, err)

		notebookID := uuid.New()
		mugID := uuid.New()
		require.NoError(t, tx.ReplaceItems([]TransactionItem{
			{
				ProductID:        notebookID,
				NameSnapshot:     "Notebook",
				Catalog:          catalog.CatalogStationery,
				Quantity:         5,
				UnitPrice:        decimal.NewFromInt(50),
				LineTotal:        decimal.NewFromInt(250),
				Status:           ItemPartial,
				DeductedQuantity: 3,
			},
			{
				ProductID:        mugID,
				NameSnapshot:     "Mug",
				Catalog:          catalog.CatalogGeneral,
				Quantity:         1,
				UnitPrice:        decimal.NewFromInt(20),
				LineTotal:        decimal.NewFromInt(20),
				Status:           ItemFulfilled,
				DeductedQuantity: 1,
			},
		}))

		deltas := tx.RestoreDeltas()
		require.Len(t, deltas, 2)
		assert.Equal(t, int64(3), deltas[catalog.CatalogStationery][notebookID])
		assert.Equal(t, int64(1), deltas[catalog.CatalogGeneral][mugID])
	})

	t.Run("set items restore only taken components", func(t *testing.T) {
		tx, err := NewTransaction(KindPurchase, &collegeID, nil, true)
		require.NoError(t, err)

		penID := uuid.New()
		padID := uuid.New()
		require.NoError(t, tx.ReplaceItems([]TransactionItem{
			{
				ProductID:    uuid.New(),
				NameSnapshot: "Kit",
				Catalog:      catalog.CatalogStationery,
				Quantity:     1,
				UnitPrice:    decimal.NewFromInt(80),
				LineTotal:    decimal.NewFromInt(80),
				IsSet:        true,
				Components: []SetComponentRecord{
					{ComponentID: penID, NameSnapshot: "Pen", Quantity: 2, Taken: true},
					{ComponentID: padID, NameSnapshot: "Pad", Quantity: 1, Taken: false, Reason: "Out of stock"},
				},
			},
		}))

		deltas := tx.RestoreDeltas()
		require.Len(t, deltas, 1)
		stationery := deltas[catalog.CatalogStationery]
		assert.Equal(t, int64(2), stationery[penID])
		_, present := stationery[padID]
		assert.False(t, present)
	})

	t.Run("items with nothing deducted produce no deltas", func(t *testing.T) {
		tx, err := NewTransaction(KindPurchase, &collegeID, nil, false)
		require.NoError(t, err)

		require.NoError(t, tx.ReplaceItems([]TransactionItem{
			{
				ProductID:        uuid.New(),
				NameSnapshot:     "Notebook",
				Catalog:          catalog.CatalogStationery,
				Quantity:         2,
				UnitPrice:        decimal.NewFromInt(50),
				LineTotal:        decimal.NewFromInt(100),
				DeductedQuantity: 0,
			},
		}))

		assert.Empty(t, tx.RestoreDeltas())
	})
}

func TestTransactionFlags(t *testing.T) {
	collegeID := uuid.New()

	t.Run("SetPaid is idempotent on version", func(t *testing.T) {
		tx, err := NewTransaction(KindPurchase, &collegeID, nil, false)
		require.NoError(t, err)
		before := tx.Version

		tx.SetPaid(false)
		assert.Equal(t, before, tx.Version)

		tx.SetPaid(true)
		assert.True(t, tx.IsPaid)
		assert.Equal(t, before+1, tx.Version)
	})

	t.Run("MarkStockDeducted tracks the live ledger claim", func(t *testing.T) {
		tx, err := NewTransaction(KindPurchase, &collegeID, nil, true)
		require.NoError(t, err)

		tx.MarkStockDeducted(true)
		assert.True(t, tx.StockDeducted)

		tx.MarkStockDeducted(false)
		assert.False(t, tx.StockDeducted)
	})

	t.Run("HasPartialItems reflects item statuses", func(t *testing.T) {
		tx, err := NewTransaction(KindPurchase, &collegeID, nil, true)
		require.NoError(t, err)
		require.NoError(t, tx.ReplaceItems([]TransactionItem{
			{ProductID: uuid.New(), NameSnapshot: "A", Catalog: catalog.CatalogStationery, Quantity: 1,
				UnitPrice: decimal.NewFromInt(1), LineTotal: decimal.NewFromInt(1), Status: ItemFulfilled},
		}))
		assert.False(t, tx.HasPartialItems())

		tx.Items[0].Status = ItemPartial
		assert.True(t, tx.HasPartialItems())
	})
}
