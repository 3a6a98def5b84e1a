package persistence

import (
	"context"
	"testing"

	"github.com/campusstore/backend/internal/domain/audit"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/college"
	"github.com/campusstore/backend/internal/domain/identity"
	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/campusstore/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
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
	)
	require.NoError(t, err)

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, sku string, kind catalog.CatalogKind, centralStock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, sku, kind, decimal.NewFromInt(25))
	require.NoError(t, err)
	p.CentralStock = centralStock
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}
