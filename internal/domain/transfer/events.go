package transfer

import (
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the transfer module
const (
	EventTypeTransferCreated   = "transfer.created"
	EventTypeTransferCompleted = "transfer.completed"
	EventTypeTransferCancelled = "transfer.cancelled"
	EventTypeTransferDeleted   = "transfer.deleted"
)

// TransferCreatedEvent is emitted when a transfer is created
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	ToCollegeID uuid.UUID `json:"to_college_id"`
	ItemCount   int       `json:"item_count"`
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(t *StockTransfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCreated, "StockTransfer", t.ID),
		ToCollegeID:     t.ToCollegeID,
		ItemCount:       len(t.Items),
	}
}

// TransferCompletedEvent is emitted when a transfer completes
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	ToCollegeID         uuid.UUID  `json:"to_college_id"`
	LinkedTransactionID *uuid.UUID `json:"linked_transaction_id"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(t *StockTransfer) *TransferCompletedEvent {
	return &TransferCompletedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeTransferCompleted, "StockTransfer", t.ID),
		ToCollegeID:         t.ToCollegeID,
		LinkedTransactionID: t.LinkedTransactionID,
	}
}

// TransferCancelledEvent is emitted when a pending transfer is cancelled
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(t *StockTransfer) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCancelled, "StockTransfer", t.ID),
		Reason:          t.Remark,
	}
}

// TransferDeletedEvent is emitted when a transfer record is removed
type TransferDeletedEvent struct {
	shared.BaseDomainEvent
	WasCompleted bool `json:"was_completed"`
}

// NewTransferDeletedEvent creates a new TransferDeletedEvent
func NewTransferDeletedEvent(id uuid.UUID, wasCompleted bool) *TransferDeletedEvent {
	return &TransferDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferDeleted, "StockTransfer", id),
		WasCompleted:    wasCompleted,
	}
}
