package catalog

import (
	"context"
	"testing"

	"github.com/campusstore/backend/internal/domain/audit"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/college"
	"github.com/campusstore/backend/internal/domain/identity"
	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/transfer"
	"github.com/campusstore/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newProductService(t *testing.T) *ProductService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&catalog.SetItem{},
		&college.College{},
		&college.StockEntry{},
		&identity.Student{},
		&identity.Staff{},
		&sales.Transaction{},
		&sales.TransactionItem{},
		&sales.SetComponentRecord{},
		&transfer.StockTransfer{},
		&transfer.TransferItem{},
		&audit.StockAudit{},
	))
	return NewProductService(persistence.NewGormTransactionScope(db), nil)
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a product", func(t *testing.T) {
		service := newProductService(t)

		resp, err := service.Create(ctx, CreateProductRequest{
			Name:    "Notebook",
			SKU:     "NB-001",
			Catalog: "STATIONERY",
			Price:   decimal.NewFromInt(30),
		})
		require.NoError(t, err)

		assert.Equal(t, "Notebook", resp.Name)
		assert.Equal(t, "STATIONERY", resp.Catalog)
		assert.False(t, resp.IsSet)
	})

	t.Run("rejects a duplicate SKU", func(t *testing.T) {
		service := newProductService(t)
		req := CreateProductRequest{
			Name:    "Notebook",
			SKU:     "NB-002",
			Catalog: "STATIONERY",
			Price:   decimal.NewFromInt(30),
		}
		_, err := service.Create(ctx, req)
		require.NoError(t, err)

		_, err = service.Create(ctx, req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects an unknown catalog kind", func(t *testing.T) {
		service := newProductService(t)

		_, err := service.Create(ctx, CreateProductRequest{
			Name:    "Notebook",
			SKU:     "NB-003",
			Catalog: "GROCERY",
			Price:   decimal.NewFromInt(30),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})
}

func TestProductServiceConfigureSet(t *testing.T) {
	ctx := context.Background()

	mustCreate := func(t *testing.T, service *ProductService, name, sku string) *ProductResponse {
		t.Helper()
		resp, err := service.Create(ctx, CreateProductRequest{
			Name:    name,
			SKU:     sku,
			Catalog: "STATIONERY",
			Price:   decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("configures and clears a set", func(t *testing.T) {
		service := newProductService(t)
		pen := mustCreate(t, service, "Pen", "PEN-010")
		pad := mustCreate(t, service, "Pad", "PAD-010")
		kit := mustCreate(t, service, "Starter Kit", "KIT-010")

		resp, err := service.ConfigureSet(ctx, kit.ID, ConfigureSetRequest{
			Entries: []SetEntryRequest{
				{ComponentID: pen.ID, Quantity: 2},
				{ComponentID: pad.ID, Quantity: 1},
			},
		})
		require.NoError(t, err)
		assert.True(t, resp.IsSet)
		require.Len(t, resp.SetItems, 2)

		resp, err = service.ConfigureSet(ctx, kit.ID, ConfigureSetRequest{})
		require.NoError(t, err)
		assert.False(t, resp.IsSet)
		assert.Empty(t, resp.SetItems)
	})

	t.Run("rejects a set component that is itself a set", func(t *testing.T) {
		service := newProductService(t)
		pen := mustCreate(t, service, "Pen", "PEN-011")
		inner := mustCreate(t, service, "Inner Kit", "KIT-011")
		outer := mustCreate(t, service, "Outer Kit", "KIT-012")

		_, err := service.ConfigureSet(ctx, inner.ID, ConfigureSetRequest{
			Entries: []SetEntryRequest{{ComponentID: pen.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		_, err = service.ConfigureSet(ctx, outer.ID, ConfigureSetRequest{
			Entries: []SetEntryRequest{{ComponentID: inner.ID, Quantity: 1}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidSetConfiguration, domainErr.Code)
	})

	t.Run("every component must exist", func(t *testing.T) {
		service := newProductService(t)
		kit := mustCreate(t, service, "Starter Kit", "KIT-013")

		_, err := service.ConfigureSet(ctx, kit.ID, ConfigureSetRequest{
			Entries: []SetEntryRequest{{ComponentID: uuid.New(), Quantity: 1}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("renames and reprices", func(t *testing.T) {
		service := newProductService(t)
		created, err := service.Create(ctx, CreateProductRequest{
			Name:    "Notebook",
			SKU:     "NB-020",
			Catalog: "STATIONERY",
			Price:   decimal.NewFromInt(30),
		})
		require.NoError(t, err)

		name := "Spiral Notebook"
		price := decimal.NewFromInt(35)
		resp, err := service.Update(ctx, created.ID, UpdateProductRequest{Name: &name, Price: &price})
		require.NoError(t, err)

		assert.Equal(t, "Spiral Notebook", resp.Name)
		assert.True(t, resp.Price.Equal(decimal.NewFromInt(35)))
		assert.Greater(t, resp.Version, created.Version)
	})

	t.Run("missing products surface as not found", func(t *testing.T) {
		service := newProductService(t)

		name := "Anything"
		_, err := service.Update(ctx, uuid.New(), UpdateProductRequest{Name: &name})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		err = service.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
