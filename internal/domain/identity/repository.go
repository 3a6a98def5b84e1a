package identity

import (
	"context"

	"github.com/google/uuid"
)

// StudentRepository defines the interface for student persistence
type StudentRepository interface {
	// FindByID finds a student by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)

	// FindByRollNumber finds a student by roll number
	FindByRollNumber(ctx context.Context, rollNumber string) (*Student, error)

	// Save creates or updates a student
	Save(ctx context.Context, s *Student) error
}

// StaffRepository defines the interface for staff persistence
type StaffRepository interface {
	// FindByID finds a staff member by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Staff, error)

	// Save creates or updates a staff member
	Save(ctx context.Context, s *Staff) error
}
