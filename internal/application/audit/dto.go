package audit

import (
	"time"

	"github.com/campusstore/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// ProposeAuditRequest is the request to propose a manual count
// override. BeforeQuantity is what the proposer observed in the ledger;
// when omitted the current ledger quantity is recorded instead. A nil
// CollegeID targets the central ledger.
type ProposeAuditRequest struct {
	ProductID      uuid.UUID  `json:"product_id" binding:"required"`
	CollegeID      *uuid.UUID `json:"college_id,omitempty"`
	BeforeQuantity *int64     `json:"before_quantity,omitempty"`
	AfterQuantity  int64      `json:"after_quantity" binding:"min=0"`
	ProposedByName string     `json:"proposed_by_name,omitempty"`
}

// ReviewAuditRequest is the request to approve or reject a pending audit
type ReviewAuditRequest struct {
	ReviewerID   uuid.UUID `json:"reviewer_id" binding:"required"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	Note         string    `json:"note,omitempty"`
}

// AuditResponse is the API representation of a stock audit
type AuditResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	ProductName    string     `json:"product_name"`
	CollegeID      *uuid.UUID `json:"college_id,omitempty"`
	Catalog        string     `json:"catalog"`
	BeforeQuantity int64      `json:"before_quantity"`
	AfterQuantity  int64      `json:"after_quantity"`
	Status         string     `json:"status"`
	ProposedByName string     `json:"proposed_by_name,omitempty"`
	ReviewedByID   *uuid.UUID `json:"reviewed_by_id,omitempty"`
	ReviewedByName string     `json:"reviewed_by_name,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToAuditResponse converts an audit aggregate to a response
func ToAuditResponse(a *audit.StockAudit) AuditResponse {
	return AuditResponse{
		ID:             a.ID,
		ProductID:      a.ProductID,
		ProductName:    a.ProductName,
		CollegeID:      a.CollegeID,
		Catalog:        string(a.Catalog),
		BeforeQuantity: a.BeforeQuantity,
		AfterQuantity:  a.AfterQuantity,
		Status:         string(a.Status),
		ProposedByName: a.ProposedByName,
		ReviewedByID:   a.ReviewedByID,
		ReviewedByName: a.ReviewedByName,
		ReviewedAt:     a.ReviewedAt,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ListAuditsRequest is the request to list audits
type ListAuditsRequest struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	Status   string `form:"status"`
}
