package transfer

import (
	"time"

	"github.com/campusstore/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferItemRequest is one requested product line of a transfer
type TransferItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// CreateTransferRequest is the request to create a pending transfer.
// DeductFromCentral and IncludeInRevenue default to true when omitted.
type CreateTransferRequest struct {
	ToCollegeID       uuid.UUID             `json:"to_college_id" binding:"required"`
	Items             []TransferItemRequest `json:"items" binding:"required,min=1"`
	DeductFromCentral *bool                 `json:"deduct_from_central,omitempty"`
	IncludeInRevenue  *bool                 `json:"include_in_revenue,omitempty"`
	IsPaid            bool                  `json:"is_paid"`
	Remark            string                `json:"remark,omitempty"`
}

// CancelTransferRequest is the request to cancel a pending transfer
type CancelTransferRequest struct {
	Reason string `json:"reason,omitempty"`
}

// TransferItemResponse is one line of a transfer
type TransferItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Catalog   string          `json:"catalog"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// TransferResponse is the API representation of a stock transfer
type TransferResponse struct {
	ID                  uuid.UUID              `json:"id"`
	ToCollegeID         uuid.UUID              `json:"to_college_id"`
	Status              string                 `json:"status"`
	DeductFromCentral   bool                   `json:"deduct_from_central"`
	IncludeInRevenue    bool                   `json:"include_in_revenue"`
	IsPaid              bool                   `json:"is_paid"`
	LinkedTransactionID *uuid.UUID             `json:"linked_transaction_id,omitempty"`
	TotalAmount         decimal.Decimal        `json:"total_amount"`
	Remark              string                 `json:"remark,omitempty"`
	Items               []TransferItemResponse `json:"items"`
	CompletedAt         *time.Time             `json:"completed_at,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
	Version             int                    `json:"version"`
}

// ToTransferResponse converts a transfer aggregate to a response
func ToTransferResponse(t *transfer.StockTransfer) TransferResponse {
	items := make([]TransferItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, TransferItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.NameSnapshot,
			Catalog:   string(item.Catalog),
			Quantity:  item.Quantity,
			Price:     item.PriceSnapshot,
		})
	}

	return TransferResponse{
		ID:                  t.ID,
		ToCollegeID:         t.ToCollegeID,
		Status:              string(t.Status),
		DeductFromCentral:   t.DeductFromCentral,
		IncludeInRevenue:    t.IncludeInRevenue,
		IsPaid:              t.IsPaid,
		LinkedTransactionID: t.LinkedTransactionID,
		TotalAmount:         t.TotalAmount(),
		Remark:              t.Remark,
		Items:               items,
		CompletedAt:         t.CompletedAt,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
		Version:             t.Version,
	}
}

// ListTransfersRequest is the request to list transfers
type ListTransfersRequest struct {
	Page        int        `form:"page,default=1" binding:"min=1"`
	PageSize    int        `form:"page_size,default=20" binding:"min=1,max=100"`
	Status      string     `form:"status"`
	ToCollegeID *uuid.UUID `form:"to_college_id"`
}
