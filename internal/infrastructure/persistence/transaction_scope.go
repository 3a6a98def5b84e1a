package persistence

import (
	"context"

	"github.com/campusstore/backend/internal/application/scope"
	"github.com/campusstore/backend/internal/domain/audit"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/college"
	"github.com/campusstore/backend/internal/domain/identity"
	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/campusstore/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransactionScope implements scope.TransactionScope over a gorm
// database transaction. Every repository handed to the callback shares
// the same transaction, so multi-cell ledger commits either land
// together or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos scope.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormRepositories(tx))
	})
}

// gormRepositories provides transaction-bound repository access
type gormRepositories struct {
	products     *GormProductRepository
	colleges     *GormCollegeRepository
	students     *GormStudentRepository
	staff        *GormStaffRepository
	transactions *GormTransactionRepository
	transfers    *GormTransferRepository
	audits       *GormAuditRepository
	ledger       *GormStockLedger
}

func newGormRepositories(tx *gorm.DB) *gormRepositories {
	return &gormRepositories{
		products:     NewGormProductRepository(tx),
		colleges:     NewGormCollegeRepository(tx),
		students:     NewGormStudentRepository(tx),
		staff:        NewGormStaffRepository(tx),
		transactions: NewGormTransactionRepository(tx),
		transfers:    NewGormTransferRepository(tx),
		audits:       NewGormAuditRepository(tx),
		ledger:       NewGormStockLedger(tx),
	}
}

func (r *gormRepositories) Products() catalog.ProductRepository         { return r.products }
func (r *gormRepositories) Colleges() college.CollegeRepository        { return r.colleges }
func (r *gormRepositories) Students() identity.StudentRepository       { return r.students }
func (r *gormRepositories) Staff() identity.StaffRepository            { return r.staff }
func (r *gormRepositories) Transactions() sales.TransactionRepository  { return r.transactions }
func (r *gormRepositories) Transfers() transfer.TransferRepository     { return r.transfers }
func (r *gormRepositories) Audits() audit.AuditRepository              { return r.audits }
func (r *gormRepositories) Ledger() stock.Ledger                       { return r.ledger }

var _ scope.TransactionScope = (*GormTransactionScope)(nil)
var _ scope.Repositories = (*gormRepositories)(nil)
