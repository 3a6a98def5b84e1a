package persistence

import (
	"context"
	"testing"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Save and FindByID round-trip a plain product", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "Notebook", "NB-500", catalog.CatalogStationery, 10)

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Notebook", found.Name)
		assert.Equal(t, int64(10), found.CentralStock)
		assert.Empty(t, found.SetItems)
	})

	t.Run("FindByID misses with ErrNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)

		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("set items are replaced wholesale and kept ordered", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		pen := seedProduct(t, db, "Pen", "PEN-500", catalog.CatalogStationery, 0)
		pad := seedProduct(t, db, "Pad", "PAD-500", catalog.CatalogStationery, 0)
		kit := seedProduct(t, db, "Kit", "KIT-500", catalog.CatalogStationery, 0)

		require.NoError(t, kit.ConfigureSet([]catalog.SetEntry{
			{Component: pad, Quantity: 1},
			{Component: pen, Quantity: 2},
		}))
		require.NoError(t, repo.Save(ctx, kit))

		found, err := repo.FindByID(ctx, kit.ID)
		require.NoError(t, err)
		require.Len(t, found.SetItems, 2)
		assert.Equal(t, pad.ID, found.SetItems[0].ComponentID)
		assert.Equal(t, pen.ID, found.SetItems[1].ComponentID)

		require.NoError(t, kit.ConfigureSet([]catalog.SetEntry{
			{Component: pen, Quantity: 3},
		}))
		require.NoError(t, repo.Save(ctx, kit))

		found, err = repo.FindByID(ctx, kit.ID)
		require.NoError(t, err)
		require.Len(t, found.SetItems, 1)
		assert.Equal(t, int64(3), found.SetItems[0].Quantity)
	})

	t.Run("FindBySKU", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		seedProduct(t, db, "Notebook", "NB-501", catalog.CatalogStationery, 0)

		found, err := repo.FindBySKU(ctx, "NB-501")
		require.NoError(t, err)
		assert.Equal(t, "Notebook", found.Name)

		_, err = repo.FindBySKU(ctx, "missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("SaveWithLock rejects stale versions", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "Notebook", "NB-502", catalog.CatalogStationery, 0)

		require.NoError(t, p.Rename("Spiral Notebook"))
		require.NoError(t, repo.SaveWithLock(ctx, p))

		// A copy that never saw the last save carries a version the
		// guarded update will not match.
		stale := *p
		stale.Version = p.Version - 1
		err := repo.SaveWithLock(ctx, &stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("FindAll filters by search", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		seedProduct(t, db, "Spiral Notebook", "NB-503", catalog.CatalogStationery, 0)
		seedProduct(t, db, "Ballpoint Pen", "PEN-503", catalog.CatalogStationery, 0)

		filter := shared.DefaultFilter()
		filter.Search = "Notebook"
		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Spiral Notebook", found[0].Name)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Delete removes the product and its set items", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		pen := seedProduct(t, db, "Pen", "PEN-504", catalog.CatalogStationery, 0)
		kit := seedProduct(t, db, "Kit", "KIT-504", catalog.CatalogStationery, 0)
		require.NoError(t, kit.ConfigureSet([]catalog.SetEntry{{Component: pen, Quantity: 1}}))
		require.NoError(t, repo.Save(ctx, kit))

		require.NoError(t, repo.Delete(ctx, kit.ID))

		_, err := repo.FindByID(ctx, kit.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var count int64
		require.NoError(t, db.Model(&catalog.SetItem{}).Where("product_id = ?", kit.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)

		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})

	t.Run("Save updates an existing product in place", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "Notebook", "NB-505", catalog.CatalogStationery, 0)

		require.NoError(t, p.ChangePrice(decimal.NewFromInt(99)))
		require.NoError(t, repo.Save(ctx, p))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, found.Price.Equal(decimal.NewFromInt(99)))
	})
}
