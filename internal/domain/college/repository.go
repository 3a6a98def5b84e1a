package college

import (
	"context"

	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CollegeRepository defines the interface for college persistence
type CollegeRepository interface {
	// FindByID finds a college by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*College, error)

	// FindByCode finds a college by its code
	FindByCode(ctx context.Context, code string) (*College, error)

	// FindByCourse finds the college whose course list contains the course
	FindByCourse(ctx context.Context, course string) (*College, error)

	// FindAll finds colleges matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]College, error)

	// Save creates or updates a college
	Save(ctx context.Context, c *College) error

	// Delete deletes a college
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts colleges matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
