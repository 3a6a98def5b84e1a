package sales

import (
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the sales module
const (
	EventTypeTransactionCreated        = "sales.transaction.created"
	EventTypeTransactionUpdated        = "sales.transaction.updated"
	EventTypeTransactionDeleted        = "sales.transaction.deleted"
	EventTypeTransactionStockCommitted = "sales.transaction.stock_committed"
	EventTypeTransactionStockRestored  = "sales.transaction.stock_restored"
)

// TransactionCreatedEvent is emitted when a transaction is created
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	Kind   TransactionKind `json:"kind"`
	IsPaid bool            `json:"is_paid"`
}

// NewTransactionCreatedEvent creates a new TransactionCreatedEvent
func NewTransactionCreatedEvent(t *Transaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionCreated, "Transaction", t.ID),
		Kind:            t.Kind,
		IsPaid:          t.IsPaid,
	}
}

// TransactionUpdatedEvent is emitted when items or payment state change
type TransactionUpdatedEvent struct {
	shared.BaseDomainEvent
	IsPaid        bool            `json:"is_paid"`
	StockDeducted bool            `json:"stock_deducted"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewTransactionUpdatedEvent creates a new TransactionUpdatedEvent
func NewTransactionUpdatedEvent(t *Transaction) *TransactionUpdatedEvent {
	return &TransactionUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionUpdated, "Transaction", t.ID),
		IsPaid:          t.IsPaid,
		StockDeducted:   t.StockDeducted,
		TotalAmount:     t.TotalAmount,
	}
}

// TransactionDeletedEvent is emitted when a transaction is removed
type TransactionDeletedEvent struct {
	shared.BaseDomainEvent
	Kind TransactionKind `json:"kind"`
}

// NewTransactionDeletedEvent creates a new TransactionDeletedEvent
func NewTransactionDeletedEvent(id uuid.UUID, kind TransactionKind) *TransactionDeletedEvent {
	return &TransactionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionDeleted, "Transaction", id),
		Kind:            kind,
	}
}

// StockCommittedEvent is emitted after ledger deltas are committed for a
// paid transaction
type StockCommittedEvent struct {
	shared.BaseDomainEvent
	CollegeID uuid.UUID `json:"college_id"`
	Deltas    int       `json:"delta_count"`
}

// NewStockCommittedEvent creates a new StockCommittedEvent
func NewStockCommittedEvent(t *Transaction, collegeID uuid.UUID, deltaCount int) *StockCommittedEvent {
	return &StockCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionStockCommitted, "Transaction", t.ID),
		CollegeID:       collegeID,
		Deltas:          deltaCount,
	}
}

// StockRestoredEvent is emitted after a restore returned the ledger to
// its pre-transaction state
type StockRestoredEvent struct {
	shared.BaseDomainEvent
	CollegeID uuid.UUID `json:"college_id"`
	Deltas    int       `json:"delta_count"`
}

// NewStockRestoredEvent creates a new StockRestoredEvent
func NewStockRestoredEvent(t *Transaction, collegeID uuid.UUID, deltaCount int) *StockRestoredEvent {
	return &StockRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionStockRestored, "Transaction", t.ID),
		CollegeID:       collegeID,
		Deltas:          deltaCount,
	}
}
