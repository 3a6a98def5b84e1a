package sales

import (
	"time"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes student purchases from the mirrored
// records created by stock transfers.
type TransactionKind string

const (
	KindPurchase TransactionKind = "PURCHASE"
	KindTransfer TransactionKind = "TRANSFER"
)

// IsValid checks if the kind is a valid TransactionKind
func (k TransactionKind) IsValid() bool {
	return k == KindPurchase || k == KindTransfer
}

// ItemStatus records whether an item was fully deducted from the ledger
type ItemStatus string

const (
	ItemFulfilled ItemStatus = "FULFILLED"
	ItemPartial   ItemStatus = "PARTIAL"
)

// SetComponentRecord is the per-component fulfillment record of a set
// item. Taken=false means the component units were not deducted; Reason
// carries the human-readable shortfall explanation.
type SetComponentRecord struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	ComponentID       uuid.UUID `gorm:"type:uuid;not null"`
	NameSnapshot      string    `gorm:"size:255;not null"`
	Quantity          int64     `gorm:"not null"`
	Taken             bool      `gorm:"not null;default:false"`
	Reason            string    `gorm:"size:512"`
}

// TableName returns the table name for GORM
func (SetComponentRecord) TableName() string {
	return "transaction_set_components"
}

// TransactionItem is one line of a transaction. For plain items
// DeductedQuantity records how many units actually left the ledger so a
// later restore is the exact inverse of the commit; for set items the
// per-component Taken flags carry that information instead.
type TransactionItem struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TransactionID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID           `gorm:"type:uuid;not null"`
	NameSnapshot     string              `gorm:"size:255;not null"`
	Catalog          catalog.CatalogKind `gorm:"size:16;not null"`
	Quantity         int64               `gorm:"not null"`
	UnitPrice        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	LineTotal        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	IsSet            bool                `gorm:"not null;default:false"`
	Status           ItemStatus          `gorm:"size:16;not null;default:'FULFILLED'"`
	DeductedQuantity int64               `gorm:"not null;default:0"`
	ShortfallReason  string              `gorm:"size:512"`

	Components []SetComponentRecord `gorm:"foreignKey:TransactionItemID;references:ID"`
}

// TableName returns the table name for GORM
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// Transaction is the aggregate root for a monetary transaction that
// consumes stock. StockDeducted is the single source of truth for
// whether the stored items currently hold a live claim on the ledger;
// every mutation of IsPaid or Items keeps it synchronized.
type Transaction struct {
	shared.BaseAggregateRoot
	Kind          TransactionKind `gorm:"size:16;not null;index"`
	CollegeID     *uuid.UUID      `gorm:"type:uuid;index"`
	StudentID     *uuid.UUID      `gorm:"type:uuid;index"`
	IsPaid        bool            `gorm:"not null;default:false"`
	StockDeducted bool            `gorm:"not null;default:false"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Remark        string          `gorm:"size:512"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a new transaction shell; items are attached via
// ReplaceItems once fulfillment has been decided.
func NewTransaction(kind TransactionKind, collegeID, studentID *uuid.UUID, isPaid bool) (*Transaction, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Invalid transaction kind")
	}
	if kind == KindPurchase && (collegeID == nil || *collegeID == uuid.Nil) {
		return nil, shared.ErrLocationRequired
	}

	tx := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		CollegeID:         collegeID,
		StudentID:         studentID,
		IsPaid:            isPaid,
		TotalAmount:       decimal.Zero,
		Items:             make([]TransactionItem, 0),
	}

	tx.AddDomainEvent(NewTransactionCreatedEvent(tx))

	return tx, nil
}

// ReplaceItems replaces the item list and recomputes the total amount
func (t *Transaction) ReplaceItems(items []TransactionItem) error {
	if len(items) == 0 {
		return shared.NewValidationError("A transaction must have at least one item")
	}

	total := decimal.Zero
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].TransactionID = t.ID
		for j := range items[i].Components {
			if items[i].Components[j].ID == uuid.Nil {
				items[i].Components[j].ID = uuid.New()
			}
			items[i].Components[j].TransactionItemID = items[i].ID
		}
		total = total.Add(items[i].LineTotal)
	}

	t.Items = items
	t.TotalAmount = total
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetPaid updates the payment flag
func (t *Transaction) SetPaid(paid bool) {
	if t.IsPaid == paid {
		return
	}
	t.IsPaid = paid
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// MarkStockDeducted records whether the items currently hold a live
// claim on the ledger
func (t *Transaction) MarkStockDeducted(deducted bool) {
	if t.StockDeducted == deducted {
		return
	}
	t.StockDeducted = deducted
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetRemark sets the free-form remark
func (t *Transaction) SetRemark(remark string) {
	t.Remark = remark
	t.UpdatedAt = time.Now()
}

// RestoreDeltas computes the positive deltas, grouped by catalog, that
// return the ledger to its pre-transaction state: the exact inverse of
// the last-applied commit. Plain items restore their recorded
// DeductedQuantity; set items restore only components that were actually
// taken. Callers must check StockDeducted before applying the result.
func (t *Transaction) RestoreDeltas() map[catalog.CatalogKind]stock.DeltaSet {
	byCatalog := make(map[catalog.CatalogKind]stock.DeltaSet)
	add := func(kind catalog.CatalogKind, productID uuid.UUID, qty int64) {
		deltas, ok := byCatalog[kind]
		if !ok {
			deltas = make(stock.DeltaSet)
			byCatalog[kind] = deltas
		}
		deltas.Add(productID, qty)
	}

	for _, item := range t.Items {
		if item.IsSet {
			// Set components share the item's catalog by configuration
			// invariant.
			for _, component := range item.Components {
				if component.Taken {
					add(item.Catalog, component.ComponentID, component.Quantity)
				}
			}
			continue
		}
		if item.DeductedQuantity > 0 {
			add(item.Catalog, item.ProductID, item.DeductedQuantity)
		}
	}
	return byCatalog
}

// HasPartialItems reports whether any item was only partially fulfilled
func (t *Transaction) HasPartialItems() bool {
	for _, item := range t.Items {
		if item.Status == ItemPartial {
			return true
		}
	}
	return false
}
