package audit

import (
	"testing"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Notebook", "NB-300", catalog.CatalogStationery, decimal.NewFromInt(50))
	require.NoError(t, err)
	return p
}

func TestNewStockAudit(t *testing.T) {
	t.Run("creates a pending proposal", func(t *testing.T) {
		product := mustProduct(t)
		a, err := NewStockAudit(product, nil, 10, 7, "storekeeper")
		require.NoError(t, err)

		assert.Equal(t, StatusPending, a.Status)
		assert.Equal(t, product.ID, a.ProductID)
		assert.Equal(t, product.Catalog, a.Catalog)
		assert.Equal(t, int64(10), a.BeforeQuantity)
		assert.Equal(t, int64(7), a.AfterQuantity)
	})

	t.Run("rejects negative quantities", func(t *testing.T) {
		product := mustProduct(t)
		_, err := NewStockAudit(product, nil, -1, 5, "")
		assert.Error(t, err)
		_, err = NewStockAudit(product, nil, 5, -1, "")
		assert.Error(t, err)
	})
}

func TestAuditScope(t *testing.T) {
	t.Run("nil college targets the central ledger", func(t *testing.T) {
		a, err := NewStockAudit(mustProduct(t), nil, 5, 3, "")
		require.NoError(t, err)

		assert.True(t, a.IsCentral())
		assert.True(t, a.Scope().IsCentral())
	})

	t.Run("college audit targets that college", func(t *testing.T) {
		collegeID := uuid.New()
		a, err := NewStockAudit(mustProduct(t), &collegeID, 5, 3, "")
		require.NoError(t, err)

		assert.False(t, a.IsCentral())
		assert.Equal(t, collegeID, a.Scope().CollegeID)
	})
}

func TestAuditReview(t *testing.T) {
	reviewerID := uuid.New()

	t.Run("approve moves to approved with reviewer metadata", func(t *testing.T) {
		a, err := NewStockAudit(mustProduct(t), nil, 5, 3, "")
		require.NoError(t, err)

		require.NoError(t, a.Approve(reviewerID, "manager", "verified count"))
		assert.Equal(t, StatusApproved, a.Status)
		require.NotNil(t, a.ReviewedByID)
		assert.Equal(t, reviewerID, *a.ReviewedByID)
		assert.Equal(t, "manager", a.ReviewedByName)
		assert.NotNil(t, a.ReviewedAt)
		assert.Equal(t, "verified count", a.Notes)
	})

	t.Run("reject appends the note", func(t *testing.T) {
		a, err := NewStockAudit(mustProduct(t), nil, 5, 3, "")
		require.NoError(t, err)

		require.NoError(t, a.Reject(reviewerID, "manager", "count not reproducible"))
		assert.Equal(t, StatusRejected, a.Status)
		assert.Equal(t, "count not reproducible", a.Notes)
	})

	t.Run("reviews are single-shot", func(t *testing.T) {
		a, err := NewStockAudit(mustProduct(t), nil, 5, 3, "")
		require.NoError(t, err)
		require.NoError(t, a.Approve(reviewerID, "manager", ""))

		assert.Error(t, a.Approve(reviewerID, "manager", ""))
		assert.Error(t, a.Reject(reviewerID, "manager", "late"))
	})
}
