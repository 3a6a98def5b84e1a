package transfer

import (
	"fmt"
	"time"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus represents the lifecycle state of a stock transfer
type TransferStatus string

const (
	StatusPending   TransferStatus = "PENDING"
	StatusCompleted TransferStatus = "COMPLETED"
	StatusCancelled TransferStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target.
// Completed and cancelled are terminal; a completed transfer can only be
// deleted, never moved back.
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// TransferItem is one product line of a stock transfer. Catalog and
// price are snapshotted at creation so completion and the mirrored
// transaction do not depend on later product edits.
type TransferItem struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TransferID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID           `gorm:"type:uuid;not null"`
	NameSnapshot  string              `gorm:"size:255;not null"`
	Catalog       catalog.CatalogKind `gorm:"size:16;not null"`
	Quantity      int64               `gorm:"not null"`
	PriceSnapshot decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (TransferItem) TableName() string {
	return "stock_transfer_items"
}

// StockTransfer is the aggregate root for a movement of stock from the
// central warehouse to a college. The DeductFromCentral and
// IncludeInRevenue flags are fixed once the status leaves pending.
type StockTransfer struct {
	shared.BaseAggregateRoot
	ToCollegeID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status      TransferStatus `gorm:"size:16;not null;default:'PENDING';index"`
	// No gorm default on the flags: with a default tag GORM omits
	// zero-value fields on insert, which would silently turn false
	// into true.
	DeductFromCentral   bool       `gorm:"not null"`
	IncludeInRevenue    bool       `gorm:"not null"`
	IsPaid              bool       `gorm:"not null;default:false"`
	LinkedTransactionID *uuid.UUID `gorm:"type:uuid"`
	CompletedAt         *time.Time
	Remark              string `gorm:"size:512"`

	Items []TransferItem `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (StockTransfer) TableName() string {
	return "stock_transfers"
}

// ItemSpec describes one requested transfer line with its resolved product
type ItemSpec struct {
	Product  *catalog.Product
	Quantity int64
}

// NewStockTransfer creates a pending transfer. Every product must exist
// (the caller resolves them) and may appear only once; quantities must be
// positive. No stock moves until Complete.
func NewStockTransfer(toCollegeID uuid.UUID, specs []ItemSpec, deductFromCentral, includeInRevenue, isPaid bool) (*StockTransfer, error) {
	if toCollegeID == uuid.Nil {
		return nil, shared.NewValidationError("Destination college is required")
	}
	if len(specs) == 0 {
		return nil, shared.NewValidationError("A transfer must have at least one item")
	}

	t := &StockTransfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ToCollegeID:       toCollegeID,
		Status:            StatusPending,
		DeductFromCentral: deductFromCentral,
		IncludeInRevenue:  includeInRevenue,
		IsPaid:            isPaid,
		Items:             make([]TransferItem, 0, len(specs)),
	}

	seen := make(map[uuid.UUID]bool, len(specs))
	for _, spec := range specs {
		if spec.Product == nil {
			return nil, shared.NewValidationError("Transfer item product cannot be nil")
		}
		if spec.Quantity < 1 {
			return nil, shared.NewValidationError("Transfer quantity must be at least 1 for " + spec.Product.Name)
		}
		if seen[spec.Product.ID] {
			return nil, shared.NewValidationError("Product " + spec.Product.Name + " is listed more than once")
		}
		seen[spec.Product.ID] = true

		t.Items = append(t.Items, TransferItem{
			ID:            uuid.New(),
			TransferID:    t.ID,
			ProductID:     spec.Product.ID,
			NameSnapshot:  spec.Product.Name,
			Catalog:       spec.Product.Catalog,
			Quantity:      spec.Quantity,
			PriceSnapshot: spec.Product.Price,
		})
	}

	t.AddDomainEvent(NewTransferCreatedEvent(t))

	return t, nil
}

// Complete transitions the transfer to completed and records the
// mirrored transaction, if one was created. Ledger movement is the
// caller's responsibility and must have succeeded before this is called.
func (t *StockTransfer) Complete(linkedTransactionID *uuid.UUID) error {
	if !t.Status.CanTransitionTo(StatusCompleted) {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Cannot transition transfer from %s to COMPLETED", t.Status))
	}

	now := time.Now()
	t.Status = StatusCompleted
	t.LinkedTransactionID = linkedTransactionID
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCompletedEvent(t))

	return nil
}

// Cancel transitions a pending transfer to cancelled. Nothing was
// committed yet, so there is no ledger effect.
func (t *StockTransfer) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Cannot transition transfer from %s to CANCELLED", t.Status))
	}

	t.Status = StatusCancelled
	if reason != "" {
		t.Remark = reason
	}
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCancelledEvent(t))

	return nil
}

// TotalAmount returns the sum of price × quantity over all items
func (t *StockTransfer) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.PriceSnapshot.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}

// ItemFor returns the item for a product, or nil
func (t *StockTransfer) ItemFor(productID uuid.UUID) *TransferItem {
	for i := range t.Items {
		if t.Items[i].ProductID == productID {
			return &t.Items[i]
		}
	}
	return nil
}
