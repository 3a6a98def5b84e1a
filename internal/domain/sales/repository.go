package sales

import (
	"context"

	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// FindByID finds a transaction by ID, preloading items and components
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindAll finds transactions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Transaction, error)

	// FindByCollege finds transactions for a college
	FindByCollege(ctx context.Context, collegeID uuid.UUID, filter shared.Filter) ([]Transaction, error)

	// FindByStudent finds transactions for a student
	FindByStudent(ctx context.Context, studentID uuid.UUID, filter shared.Filter) ([]Transaction, error)

	// Save creates or updates a transaction together with its items.
	// Replaced items and components are removed from storage.
	Save(ctx context.Context, t *Transaction) error

	// Delete deletes a transaction and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
