package audit

import (
	"context"

	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditRepository defines the interface for stock audit persistence
type AuditRepository interface {
	// FindByID finds an audit by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockAudit, error)

	// FindAll finds audits matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockAudit, error)

	// FindPending finds audits awaiting review
	FindPending(ctx context.Context, filter shared.Filter) ([]StockAudit, error)

	// Save creates or updates an audit
	Save(ctx context.Context, a *StockAudit) error

	// Delete deletes an audit
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts audits matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
