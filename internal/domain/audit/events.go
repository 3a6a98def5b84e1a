package audit

import (
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the audit module
const (
	EventTypeAuditProposed = "audit.proposed"
	EventTypeAuditApproved = "audit.approved"
	EventTypeAuditRejected = "audit.rejected"
)

// AuditProposedEvent is emitted when a manual count is proposed
type AuditProposedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID `json:"product_id"`
	BeforeQuantity int64     `json:"before_quantity"`
	AfterQuantity  int64     `json:"after_quantity"`
}

// NewAuditProposedEvent creates a new AuditProposedEvent
func NewAuditProposedEvent(a *StockAudit) *AuditProposedEvent {
	return &AuditProposedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAuditProposed, "StockAudit", a.ID),
		ProductID:       a.ProductID,
		BeforeQuantity:  a.BeforeQuantity,
		AfterQuantity:   a.AfterQuantity,
	}
}

// AuditApprovedEvent is emitted when an audit is approved
type AuditApprovedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID `json:"product_id"`
	AfterQuantity int64     `json:"after_quantity"`
}

// NewAuditApprovedEvent creates a new AuditApprovedEvent
func NewAuditApprovedEvent(a *StockAudit) *AuditApprovedEvent {
	return &AuditApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAuditApproved, "StockAudit", a.ID),
		ProductID:       a.ProductID,
		AfterQuantity:   a.AfterQuantity,
	}
}

// AuditRejectedEvent is emitted when an audit is rejected
type AuditRejectedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
}

// NewAuditRejectedEvent creates a new AuditRejectedEvent
func NewAuditRejectedEvent(a *StockAudit) *AuditRejectedEvent {
	return &AuditRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAuditRejected, "StockAudit", a.ID),
		ProductID:       a.ProductID,
	}
}
