// Package scope provides the unit-of-work boundary used by the
// application services. Every ledger-mutating operation runs inside one
// Execute call so multi-cell commits are atomic at the storage layer.
package scope

import (
	"context"

	"github.com/campusstore/backend/internal/domain/audit"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/college"
	"github.com/campusstore/backend/internal/domain/identity"
	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/campusstore/backend/internal/domain/transfer"
)

// Repositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database
// transaction.
type Repositories interface {
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Colleges returns the college repository scoped to the current transaction
	Colleges() college.CollegeRepository
	// Students returns the student repository scoped to the current transaction
	Students() identity.StudentRepository
	// Staff returns the staff repository scoped to the current transaction
	Staff() identity.StaffRepository
	// Transactions returns the transaction repository scoped to the current transaction
	Transactions() sales.TransactionRepository
	// Transfers returns the transfer repository scoped to the current transaction
	Transfers() transfer.TransferRepository
	// Audits returns the audit repository scoped to the current transaction
	Audits() audit.AuditRepository
	// Ledger returns the stock ledger scoped to the current transaction
	Ledger() stock.Ledger
}

// TransactionScope runs a function within a database transaction. If the
// function returns an error the transaction is rolled back; otherwise it
// is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// NoOpScope is a transaction scope without a real transaction, for tests
// and stores that do not support one.
type NoOpScope struct {
	ProductRepo     catalog.ProductRepository
	CollegeRepo     college.CollegeRepository
	StudentRepo     identity.StudentRepository
	StaffRepo       identity.StaffRepository
	TransactionRepo sales.TransactionRepository
	TransferRepo    transfer.TransferRepository
	AuditRepo       audit.AuditRepository
	StockLedger     stock.Ledger
}

// Execute runs the function without a real transaction
func (s *NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

// Products returns the product repository
func (s *NoOpScope) Products() catalog.ProductRepository { return s.ProductRepo }

// Colleges returns the college repository
func (s *NoOpScope) Colleges() college.CollegeRepository { return s.CollegeRepo }

// Students returns the student repository
func (s *NoOpScope) Students() identity.StudentRepository { return s.StudentRepo }

// Staff returns the staff repository
func (s *NoOpScope) Staff() identity.StaffRepository { return s.StaffRepo }

// Transactions returns the transaction repository
func (s *NoOpScope) Transactions() sales.TransactionRepository { return s.TransactionRepo }

// Transfers returns the transfer repository
func (s *NoOpScope) Transfers() transfer.TransferRepository { return s.TransferRepo }

// Audits returns the audit repository
func (s *NoOpScope) Audits() audit.AuditRepository { return s.AuditRepo }

// Ledger returns the stock ledger
func (s *NoOpScope) Ledger() stock.Ledger { return s.StockLedger }

// Ensure NoOpScope implements both interfaces
var _ TransactionScope = (*NoOpScope)(nil)
var _ Repositories = (*NoOpScope)(nil)
