package identity

import (
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Staff is an operator who records transactions. A staff member may be
// assigned to a college; that assignment is the second fallback when a
// purchase request carries no explicit college.
type Staff struct {
	shared.BaseAggregateRoot
	Name              string     `gorm:"size:255;not null"`
	Email             string     `gorm:"size:255;not null;uniqueIndex"`
	AssignedCollegeID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Staff) TableName() string {
	return "staff"
}

// NewStaff creates a new staff member
func NewStaff(name, email string) (*Staff, error) {
	if name == "" {
		return nil, shared.NewValidationError("Staff name cannot be empty")
	}
	if email == "" {
		return nil, shared.NewValidationError("Staff email cannot be empty")
	}

	return &Staff{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
	}, nil
}

// AssignCollege assigns the staff member to a college
func (s *Staff) AssignCollege(collegeID uuid.UUID) {
	s.AssignedCollegeID = &collegeID
}
