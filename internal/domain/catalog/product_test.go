package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogKind(t *testing.T) {
	t.Run("IsValid returns true for valid kinds", func(t *testing.T) {
		assert.True(t, CatalogStationery.IsValid())
		assert.True(t, CatalogGeneral.IsValid())
	})

	t.Run("IsValid returns false for invalid kinds", func(t *testing.T) {
		assert.False(t, CatalogKind("BOOKS").IsValid())
		assert.False(t, CatalogKind("").IsValid())
	})
}

func TestNewProduct(t *testing.T) {
	t.Run("creates a plain product", func(t *testing.T) {
		p, err := NewProduct("Notebook", "NB-001", CatalogStationery, decimal.NewFromInt(50))
		require.NoError(t, err)

		assert.Equal(t, "Notebook", p.Name)
		assert.Equal(t, "NB-001", p.SKU)
		assert.Equal(t, CatalogStationery, p.Catalog)
		assert.False(t, p.IsSet)
		assert.Equal(t, int64(0), p.CentralStock)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("", "NB-001", CatalogStationery, decimal.NewFromInt(50))
		assert.Error(t, err)
	})

	t.Run("rejects empty SKU", func(t *testing.T) {
		_, err := NewProduct("Notebook", "", CatalogStationery, decimal.NewFromInt(50))
		assert.Error(t, err)
	})

	t.Run("rejects invalid catalog", func(t *testing.T) {
		_, err := NewProduct("Notebook", "NB-001", CatalogKind("BOOKS"), decimal.NewFromInt(50))
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Notebook", "NB-001", CatalogStationery, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestConfigureSet(t *testing.T) {
	newProduct := func(t *testing.T, name, sku string, kind CatalogKind) *Product {
		t.Helper()
		p, err := NewProduct(name, sku, kind, decimal.NewFromInt(10))
		require.NoError(t, err)
		return p
	}

	t.Run("configures a set from plain components", func(t *testing.T) {
		set := newProduct(t, "Starter Kit", "KIT-001", CatalogStationery)
		pen := newProduct(t, "Pen", "PEN-001", CatalogStationery)
		pad := newProduct(t, "Pad", "PAD-001", CatalogStationery)

		err := set.ConfigureSet([]SetEntry{
			{Component: pen, Quantity: 2},
			{Component: pad, Quantity: 1},
		})
		require.NoError(t, err)

		assert.True(t, set.IsSet)
		require.Len(t, set.SetItems, 2)
		assert.Equal(t, pen.ID, set.SetItems[0].ComponentID)
		assert.Equal(t, int64(2), set.SetItems[0].Quantity)
		assert.Equal(t, "Pen", set.SetItems[0].NameSnapshot)
		assert.Equal(t, 0, set.SetItems[0].SortOrder)
		assert.Equal(t, 1, set.SetItems[1].SortOrder)
	})

	t.Run("rejects empty component list", func(t *testing.T) {
		set := newProduct(t, "Kit", "KIT-002", CatalogStationery)
		err := set.ConfigureSet(nil)
		assert.Error(t, err)
	})

	t.Run("rejects a set component", func(t *testing.T) {
		set := newProduct(t, "Kit", "KIT-003", CatalogStationery)
		inner := newProduct(t, "Inner Kit", "KIT-004", CatalogStationery)
		pen := newProduct(t, "Pen", "PEN-002", CatalogStationery)
		require.NoError(t, inner.ConfigureSet([]SetEntry{{Component: pen, Quantity: 1}}))

		err := set.ConfigureSet([]SetEntry{{Component: inner, Quantity: 1}})
		assert.Error(t, err)
	})

	t.Run("rejects cross-catalog components", func(t *testing.T) {
		set := newProduct(t, "Kit", "KIT-005", CatalogStationery)
		mug := newProduct(t, "Mug", "MUG-001", CatalogGeneral)

		err := set.ConfigureSet([]SetEntry{{Component: mug, Quantity: 1}})
		assert.Error(t, err)
	})

	t.Run("rejects self-containing set", func(t *testing.T) {
		set := newProduct(t, "Kit", "KIT-006", CatalogStationery)
		err := set.ConfigureSet([]SetEntry{{Component: set, Quantity: 1}})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate components", func(t *testing.T) {
		set := newProduct(t, "Kit", "KIT-007", CatalogStationery)
		pen := newProduct(t, "Pen", "PEN-003", CatalogStationery)

		err := set.ConfigureSet([]SetEntry{
			{Component: pen, Quantity: 1},
			{Component: pen, Quantity: 2},
		})
		assert.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		set := newProduct(t, "Kit", "KIT-008", CatalogStationery)
		pen := newProduct(t, "Pen", "PEN-004", CatalogStationery)

		err := set.ConfigureSet([]SetEntry{{Component: pen, Quantity: 0}})
		assert.Error(t, err)
	})

	t.Run("ClearSet reverts to a plain product", func(t *testing.T) {
		set := newProduct(t, "Kit", "KIT-009", CatalogStationery)
		pen := newProduct(t, "Pen", "PEN-005", CatalogStationery)
		require.NoError(t, set.ConfigureSet([]SetEntry{{Component: pen, Quantity: 1}}))

		set.ClearSet()

		assert.False(t, set.IsSet)
		assert.Empty(t, set.SetItems)
	})
}

func TestProductMutations(t *testing.T) {
	t.Run("Rename updates name and version", func(t *testing.T) {
		p, err := NewProduct("Notebook", "NB-010", CatalogStationery, decimal.NewFromInt(50))
		require.NoError(t, err)
		before := p.Version

		require.NoError(t, p.Rename("Spiral Notebook"))
		assert.Equal(t, "Spiral Notebook", p.Name)
		assert.Equal(t, before+1, p.Version)

		assert.Error(t, p.Rename(""))
	})

	t.Run("ChangePrice rejects negatives", func(t *testing.T) {
		p, err := NewProduct("Notebook", "NB-011", CatalogStationery, decimal.NewFromInt(50))
		require.NoError(t, err)

		require.NoError(t, p.ChangePrice(decimal.NewFromInt(60)))
		assert.True(t, p.Price.Equal(decimal.NewFromInt(60)))

		assert.Error(t, p.ChangePrice(decimal.NewFromInt(-5)))
	})

	t.Run("HasCentralStock compares against the central cell", func(t *testing.T) {
		p, err := NewProduct("Notebook", "NB-012", CatalogStationery, decimal.NewFromInt(50))
		require.NoError(t, err)
		p.CentralStock = 5

		assert.True(t, p.HasCentralStock(5))
		assert.False(t, p.HasCentralStock(6))
	})
}
