package sales

import (
	"time"

	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRequest is one requested line of a purchase. UnitPrice overrides
// the product's list price when set. ComponentsNotTaken lists set
// components the operator explicitly withheld at the counter.
type ItemRequest struct {
	ProductID          uuid.UUID        `json:"product_id" binding:"required"`
	Quantity           int64            `json:"quantity" binding:"required,min=1"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
	ComponentsNotTaken []uuid.UUID      `json:"components_not_taken,omitempty"`
}

// CreateTransactionRequest is the request to record a purchase.
// CollegeID, StaffID and StudentID feed the location resolution chain:
// explicit college first, then the staff member's assigned college, then
// the college offering the student's course.
type CreateTransactionRequest struct {
	CollegeID *uuid.UUID    `json:"college_id,omitempty"`
	StaffID   *uuid.UUID    `json:"staff_id,omitempty"`
	StudentID *uuid.UUID    `json:"student_id,omitempty"`
	IsPaid    bool          `json:"is_paid"`
	Remark    string        `json:"remark,omitempty"`
	Items     []ItemRequest `json:"items" binding:"required,min=1"`
}

// EditTransactionRequest is the request to edit a recorded purchase.
// Nil fields keep the stored value; supplying Items replaces the item
// list wholesale.
type EditTransactionRequest struct {
	IsPaid *bool         `json:"is_paid,omitempty"`
	Remark *string       `json:"remark,omitempty"`
	Items  []ItemRequest `json:"items,omitempty"`
}

// SetComponentResponse is the per-component fulfillment outcome of a
// set item
type SetComponentResponse struct {
	ComponentID uuid.UUID `json:"component_id"`
	Name        string    `json:"name"`
	Quantity    int64     `json:"quantity"`
	Taken       bool      `json:"taken"`
	Reason      string    `json:"reason,omitempty"`
}

// TransactionItemResponse is one fulfilled line of a transaction
type TransactionItemResponse struct {
	ID               uuid.UUID              `json:"id"`
	ProductID        uuid.UUID              `json:"product_id"`
	Name             string                 `json:"name"`
	Catalog          string                 `json:"catalog"`
	Quantity         int64                  `json:"quantity"`
	UnitPrice        decimal.Decimal        `json:"unit_price"`
	LineTotal        decimal.Decimal        `json:"line_total"`
	IsSet            bool                   `json:"is_set"`
	Status           string                 `json:"status"`
	DeductedQuantity int64                  `json:"deducted_quantity"`
	ShortfallReason  string                 `json:"shortfall_reason,omitempty"`
	Components       []SetComponentResponse `json:"components,omitempty"`
}

// TransactionResponse is the API representation of a transaction
type TransactionResponse struct {
	ID            uuid.UUID                 `json:"id"`
	Kind          string                    `json:"kind"`
	CollegeID     *uuid.UUID                `json:"college_id,omitempty"`
	StudentID     *uuid.UUID                `json:"student_id,omitempty"`
	IsPaid        bool                      `json:"is_paid"`
	StockDeducted bool                      `json:"stock_deducted"`
	TotalAmount   decimal.Decimal           `json:"total_amount"`
	Remark        string                    `json:"remark,omitempty"`
	Items         []TransactionItemResponse `json:"items"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
	Version       int                       `json:"version"`
}

// ToTransactionResponse converts a transaction aggregate to a response
func ToTransactionResponse(t *sales.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		components := make([]SetComponentResponse, 0, len(item.Components))
		for _, component := range item.Components {
			components = append(components, SetComponentResponse{
				ComponentID: component.ComponentID,
				Name:        component.NameSnapshot,
				Quantity:    component.Quantity,
				Taken:       component.Taken,
				Reason:      component.Reason,
			})
		}
		items = append(items, TransactionItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Name:             item.NameSnapshot,
			Catalog:          string(item.Catalog),
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			LineTotal:        item.LineTotal,
			IsSet:            item.IsSet,
			Status:           string(item.Status),
			DeductedQuantity: item.DeductedQuantity,
			ShortfallReason:  item.ShortfallReason,
			Components:       components,
		})
	}

	return TransactionResponse{
		ID:            t.ID,
		Kind:          string(t.Kind),
		CollegeID:     t.CollegeID,
		StudentID:     t.StudentID,
		IsPaid:        t.IsPaid,
		StockDeducted: t.StockDeducted,
		TotalAmount:   t.TotalAmount,
		Remark:        t.Remark,
		Items:         items,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Version:       t.Version,
	}
}

// ListTransactionsRequest is the request to list transactions
type ListTransactionsRequest struct {
	Page      int        `form:"page,default=1" binding:"min=1"`
	PageSize  int        `form:"page_size,default=20" binding:"min=1,max=100"`
	Kind      string     `form:"kind"`
	CollegeID *uuid.UUID `form:"college_id"`
	StudentID *uuid.UUID `form:"student_id"`
	IsPaid    *bool      `form:"is_paid"`
}
