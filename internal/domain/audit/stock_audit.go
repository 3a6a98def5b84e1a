package audit

import (
	"fmt"
	"time"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// AuditStatus represents the approval state of a stock audit
type AuditStatus string

const (
	StatusPending  AuditStatus = "PENDING"
	StatusApproved AuditStatus = "APPROVED"
	StatusRejected AuditStatus = "REJECTED"
)

// IsValid checks if the status is a valid AuditStatus
func (s AuditStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of AuditStatus
func (s AuditStatus) String() string {
	return string(s)
}

// StockAudit records a proposed manual count override for one ledger
// cell. BeforeQuantity is caller-asserted at proposal time; approval
// writes AfterQuantity to the cell as an absolute value, not a delta.
// A nil CollegeID targets the central ledger.
type StockAudit struct {
	shared.BaseAggregateRoot
	ProductID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductName    string              `gorm:"size:255;not null"`
	CollegeID      *uuid.UUID          `gorm:"type:uuid;index"`
	Catalog        catalog.CatalogKind `gorm:"size:16;not null"`
	BeforeQuantity int64               `gorm:"not null"`
	AfterQuantity  int64               `gorm:"not null"`
	Status         AuditStatus         `gorm:"size:16;not null;default:'PENDING';index"`
	ProposedByName string              `gorm:"size:255"`
	ReviewedByID   *uuid.UUID          `gorm:"type:uuid"`
	ReviewedByName string              `gorm:"size:255"`
	ReviewedAt     *time.Time
	Notes          string `gorm:"size:1024"`
}

// TableName returns the table name for GORM
func (StockAudit) TableName() string {
	return "stock_audits"
}

// NewStockAudit creates a pending audit proposal
func NewStockAudit(product *catalog.Product, collegeID *uuid.UUID, beforeQty, afterQty int64, proposedByName string) (*StockAudit, error) {
	if product == nil {
		return nil, shared.NewValidationError("Audit product cannot be nil")
	}
	if beforeQty < 0 || afterQty < 0 {
		return nil, shared.NewValidationError("Audit quantities cannot be negative")
	}

	a := &StockAudit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         product.ID,
		ProductName:       product.Name,
		CollegeID:         collegeID,
		Catalog:           product.Catalog,
		BeforeQuantity:    beforeQty,
		AfterQuantity:     afterQty,
		Status:            StatusPending,
		ProposedByName:    proposedByName,
	}

	a.AddDomainEvent(NewAuditProposedEvent(a))

	return a, nil
}

// IsCentral reports whether the audit targets the central ledger
func (a *StockAudit) IsCentral() bool {
	return a.CollegeID == nil || *a.CollegeID == uuid.Nil
}

// Scope returns the ledger scope the audit targets
func (a *StockAudit) Scope() stock.Scope {
	if a.IsCentral() {
		return stock.Central(a.Catalog)
	}
	return stock.AtCollege(*a.CollegeID, a.Catalog)
}

// Approve marks the audit approved. The caller applies AfterQuantity to
// the ledger; the aggregate only guards the state machine.
func (a *StockAudit) Approve(reviewerID uuid.UUID, reviewerName, note string) error {
	if a.Status != StatusPending {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot approve audit in %s status", a.Status))
	}

	now := time.Now()
	a.Status = StatusApproved
	a.ReviewedByID = &reviewerID
	a.ReviewedByName = reviewerName
	a.ReviewedAt = &now
	if note != "" {
		a.appendNote(note)
	}
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAuditApprovedEvent(a))

	return nil
}

// Reject marks the audit rejected and appends the rejection note.
// No ledger effect.
func (a *StockAudit) Reject(reviewerID uuid.UUID, reviewerName, note string) error {
	if a.Status != StatusPending {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot reject audit in %s status", a.Status))
	}

	now := time.Now()
	a.Status = StatusRejected
	a.ReviewedByID = &reviewerID
	a.ReviewedByName = reviewerName
	a.ReviewedAt = &now
	a.appendNote(note)
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAuditRejectedEvent(a))

	return nil
}

func (a *StockAudit) appendNote(note string) {
	if note == "" {
		return
	}
	if a.Notes == "" {
		a.Notes = note
		return
	}
	a.Notes = a.Notes + "\n" + note
}
