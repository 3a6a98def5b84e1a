package sales

import (
	"context"
	"testing"

	"github.com/campusstore/backend/internal/domain/audit"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/college"
	"github.com/campusstore/backend/internal/domain/identity"
	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/campusstore/backend/internal/domain/transfer"
	"github.com/campusstore/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	service *TransactionService
	college *college.College
}

func newTestEnv(t *testing.T) *testEnv {
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

	c, err := college.NewCollege("Engineering", "ENG", []string{"CS"})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCollegeRepository(db).Save(context.Background(), c))

	return &testEnv{
		db:      db,
		service: NewTransactionService(persistence.NewGormTransactionScope(db), nil),
		college: c,
	}
}

func (e *testEnv) seedProduct(t *testing.T, name, sku string, collegeStock int64) *catalog.Product {
	t.Helper()
	ctx := context.Background()
	p, err := catalog.NewProduct(name, sku, catalog.CatalogStationery, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(e.db).Save(ctx, p))
	if collegeStock > 0 {
		scope := stock.AtCollege(e.college.ID, catalog.CatalogStationery)
		require.NoError(t, persistence.NewGormStockLedger(e.db).SetQuantity(ctx, scope, p.ID, collegeStock))
	}
	return p
}

func (e *testEnv) collegeStock(t *testing.T, productID uuid.UUID) int64 {
	t.Helper()
	qty, err := persistence.NewGormStockLedger(e.db).Get(context.Background(),
		stock.AtCollege(e.college.ID, catalog.CatalogStationery), productID)
	require.NoError(t, err)
	return qty
}

func TestTransactionServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("paid purchase deducts from the college ledger", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-100", 10)

		resp, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 4}},
		})
		require.NoError(t, err)

		assert.True(t, resp.StockDeducted)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, string(sales.ItemFulfilled), resp.Items[0].Status)
		assert.Equal(t, int64(4), resp.Items[0].DeductedQuantity)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, int64(6), env.collegeStock(t, p.ID))
	})

	t.Run("shortfall deducts what is available and marks partial", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-101", 3)

		resp, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 5}},
		})
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, string(sales.ItemPartial), resp.Items[0].Status)
		assert.Equal(t, int64(3), resp.Items[0].DeductedQuantity)
		assert.NotEmpty(t, resp.Items[0].ShortfallReason)
		assert.Equal(t, int64(0), env.collegeStock(t, p.ID))
	})

	t.Run("availability is projected across lines of one request", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-102", 5)

		resp, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    true,
			Items: []ItemRequest{
				{ProductID: p.ID, Quantity: 3},
				{ProductID: p.ID, Quantity: 3},
			},
		})
		require.NoError(t, err)

		require.Len(t, resp.Items, 2)
		assert.Equal(t, int64(3), resp.Items[0].DeductedQuantity)
		assert.Equal(t, int64(2), resp.Items[1].DeductedQuantity)
		assert.Equal(t, string(sales.ItemPartial), resp.Items[1].Status)
		assert.Equal(t, int64(0), env.collegeStock(t, p.ID))
	})

	t.Run("unpaid purchase records intent but reserves nothing", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-103", 5)

		resp, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    false,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 3}},
		})
		require.NoError(t, err)

		assert.False(t, resp.StockDeducted)
		assert.Equal(t, int64(0), resp.Items[0].DeductedQuantity)
		assert.Equal(t, int64(5), env.collegeStock(t, p.ID))
	})

	t.Run("set components are taken all or nothing", func(t *testing.T) {
		env := newTestEnv(t)
		pen := env.seedProduct(t, "Pen", "PEN-100", 10)
		pad := env.seedProduct(t, "Pad", "PAD-100", 0)
		kit := env.seedProduct(t, "Starter Kit", "KIT-100", 0)
		require.NoError(t, kit.ConfigureSet([]catalog.SetEntry{
			{Component: pen, Quantity: 2},
			{Component: pad, Quantity: 1},
		}))
		require.NoError(t, persistence.NewGormProductRepository(env.db).Save(ctx, kit))

		resp, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: kit.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		item := resp.Items[0]
		assert.True(t, item.IsSet)
		assert.Equal(t, string(sales.ItemPartial), item.Status)
		require.Len(t, item.Components, 2)

		byID := map[uuid.UUID]SetComponentResponse{}
		for _, component := range item.Components {
			byID[component.ComponentID] = component
		}
		assert.True(t, byID[pen.ID].Taken)
		assert.False(t, byID[pad.ID].Taken)
		assert.NotEmpty(t, byID[pad.ID].Reason)

		assert.Equal(t, int64(8), env.collegeStock(t, pen.ID))
	})

	t.Run("withheld components are never taken", func(t *testing.T) {
		env := newTestEnv(t)
		pen := env.seedProduct(t, "Pen", "PEN-101", 10)
		pad := env.seedProduct(t, "Pad", "PAD-101", 10)
		kit := env.seedProduct(t, "Starter Kit", "KIT-101", 0)
		require.NoError(t, kit.ConfigureSet([]catalog.SetEntry{
			{Component: pen, Quantity: 2},
			{Component: pad, Quantity: 1},
		}))
		require.NoError(t, persistence.NewGormProductRepository(env.db).Save(ctx, kit))

		resp, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    true,
			Items: []ItemRequest{{
				ProductID:          kit.ID,
				Quantity:           1,
				ComponentsNotTaken: []uuid.UUID{pen.ID},
			}},
		})
		require.NoError(t, err)

		item := resp.Items[0]
		assert.Equal(t, string(sales.ItemPartial), item.Status)
		byID := map[uuid.UUID]SetComponentResponse{}
		for _, component := range item.Components {
			byID[component.ComponentID] = component
		}
		assert.False(t, byID[pen.ID].Taken)
		assert.True(t, byID[pad.ID].Taken)

		assert.Equal(t, int64(10), env.collegeStock(t, pen.ID))
		assert.Equal(t, int64(9), env.collegeStock(t, pad.ID))
	})

	t.Run("paid purchase records received items on the student", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Spiral Notebook", "NB-104", 10)

		student, err := identity.NewStudent("Asha", "2026-100", "CS")
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormStudentRepository(env.db).Save(ctx, student))

		_, err = env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			StudentID: &student.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		saved, err := persistence.NewGormStudentRepository(env.db).FindByID(ctx, student.ID)
		require.NoError(t, err)
		assert.True(t, saved.HasReceived("spiral notebook"))
	})

	t.Run("missing product fails the whole request", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: uuid.New(), Quantity: 1}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})
}

func TestTransactionServiceLocationResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to the staff member's assigned college", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-110", 5)

		staff, err := identity.NewStaff("Ops", "ops@example.edu")
		require.NoError(t, err)
		staff.AssignCollege(env.college.ID)
		require.NoError(t, persistence.NewGormStaffRepository(env.db).Save(ctx, staff))

		resp, err := env.service.Create(ctx, CreateTransactionRequest{
			StaffID: &staff.ID,
			IsPaid:  true,
			Items:   []ItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		require.NotNil(t, resp.CollegeID)
		assert.Equal(t, env.college.ID, *resp.CollegeID)
	})

	t.Run("falls back to the college offering the student's course", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-111", 5)

		student, err := identity.NewStudent("Asha", "2026-110", "CS")
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormStudentRepository(env.db).Save(ctx, student))

		resp, err := env.service.Create(ctx, CreateTransactionRequest{
			StudentID: &student.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		require.NotNil(t, resp.CollegeID)
		assert.Equal(t, env.college.ID, *resp.CollegeID)
	})

	t.Run("fails when no college can be resolved", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-112", 5)

		student, err := identity.NewStudent("Ravi", "2026-111", "Medicine")
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormStudentRepository(env.db).Save(ctx, student))

		_, err = env.service.Create(ctx, CreateTransactionRequest{
			StudentID: &student.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeLocationRequired, domainErr.Code)
	})

	t.Run("explicit college must exist", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-113", 5)
		missing := uuid.New()

		_, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &missing,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})
}

func TestTransactionServiceEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("edit restores the old claim before re-deducting", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-120", 10)

		created, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 4}},
		})
		require.NoError(t, err)
		require.Equal(t, int64(6), env.collegeStock(t, p.ID))

		edited, err := env.service.Edit(ctx, created.ID, EditTransactionRequest{
			Items: []ItemRequest{{ProductID: p.ID, Quantity: 2}},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(2), edited.Items[0].DeductedQuantity)
		assert.Equal(t, int64(8), env.collegeStock(t, p.ID))
	})

	t.Run("marking unpaid releases the claim", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-121", 10)

		created, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 4}},
		})
		require.NoError(t, err)

		resp, err := env.service.SetPaid(ctx, created.ID, false)
		require.NoError(t, err)

		assert.False(t, resp.IsPaid)
		assert.False(t, resp.StockDeducted)
		assert.Equal(t, int64(10), env.collegeStock(t, p.ID))
	})

	t.Run("marking paid commits against current availability", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-122", 10)

		created, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    false,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 4}},
		})
		require.NoError(t, err)
		require.Equal(t, int64(10), env.collegeStock(t, p.ID))

		resp, err := env.service.SetPaid(ctx, created.ID, true)
		require.NoError(t, err)

		assert.True(t, resp.StockDeducted)
		assert.Equal(t, int64(4), resp.Items[0].DeductedQuantity)
		assert.Equal(t, int64(6), env.collegeStock(t, p.ID))
	})

	t.Run("transfer-linked transactions cannot be edited", func(t *testing.T) {
		env := newTestEnv(t)

		mirror, err := sales.NewTransaction(sales.KindTransfer, &env.college.ID, nil, true)
		require.NoError(t, err)
		require.NoError(t, mirror.ReplaceItems([]sales.TransactionItem{{
			ProductID: uuid.New(), NameSnapshot: "Notebook", Catalog: catalog.CatalogStationery,
			Quantity: 1, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(10),
			Status: sales.ItemFulfilled,
		}}))
		require.NoError(t, persistence.NewGormTransactionRepository(env.db).Save(ctx, mirror))

		paid := false
		_, err = env.service.Edit(ctx, mirror.ID, EditTransactionRequest{IsPaid: &paid})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidState, domainErr.Code)

		err = env.service.Delete(ctx, mirror.ID)
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
	})
}

func TestTransactionServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete restores the deducted stock", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-130", 10)

		created, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    true,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 4}},
		})
		require.NoError(t, err)
		require.Equal(t, int64(6), env.collegeStock(t, p.ID))

		require.NoError(t, env.service.Delete(ctx, created.ID))

		assert.Equal(t, int64(10), env.collegeStock(t, p.ID))
		_, err = env.service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("deleting an unpaid purchase touches no stock", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.seedProduct(t, "Notebook", "NB-131", 10)

		created, err := env.service.Create(ctx, CreateTransactionRequest{
			CollegeID: &env.college.ID,
			IsPaid:    false,
			Items:     []ItemRequest{{ProductID: p.ID, Quantity: 4}},
		})
		require.NoError(t, err)

		require.NoError(t, env.service.Delete(ctx, created.ID))
		assert.Equal(t, int64(10), env.collegeStock(t, p.ID))
	})
}
