package transfer

import (
	"context"

	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferRepository defines the interface for stock transfer persistence
type TransferRepository interface {
	// FindByID finds a transfer by ID, preloading items
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransfer, error)

	// FindAll finds transfers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockTransfer, error)

	// FindByStatus finds transfers with the given status
	FindByStatus(ctx context.Context, status TransferStatus, filter shared.Filter) ([]StockTransfer, error)

	// FindByCollege finds transfers destined for a college
	FindByCollege(ctx context.Context, collegeID uuid.UUID, filter shared.Filter) ([]StockTransfer, error)

	// Save creates or updates a transfer together with its items
	Save(ctx context.Context, t *StockTransfer) error

	// Delete deletes a transfer and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts transfers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
