// Package identity implements staff and student management.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/campusstore/backend/internal/application/scope"
	"github.com/campusstore/backend/internal/domain/identity"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateStudentRequest is the request to register a student
type CreateStudentRequest struct {
	Name       string     `json:"name" binding:"required"`
	RollNumber string     `json:"roll_number" binding:"required"`
	Course     string     `json:"course,omitempty"`
	CollegeID  *uuid.UUID `json:"college_id,omitempty"`
}

// CreateStaffRequest is the request to register a staff member
type CreateStaffRequest struct {
	Name              string     `json:"name" binding:"required"`
	Email             string     `json:"email" binding:"required,email"`
	AssignedCollegeID *uuid.UUID `json:"assigned_college_id,omitempty"`
}

// AssignCollegeRequest assigns a staff member to a college
type AssignCollegeRequest struct {
	CollegeID uuid.UUID `json:"college_id" binding:"required"`
}

// StudentResponse is the API representation of a student
type StudentResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	RollNumber    string     `json:"roll_number"`
	Course        string     `json:"course,omitempty"`
	CollegeID     *uuid.UUID `json:"college_id,omitempty"`
	ReceivedItems []string   `json:"received_items"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StaffResponse is the API representation of a staff member
type StaffResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	AssignedCollegeID *uuid.UUID `json:"assigned_college_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToStudentResponse converts a student aggregate to a response
func ToStudentResponse(s *identity.Student) StudentResponse {
	received := s.ReceivedItems
	if received == nil {
		received = make([]string, 0)
	}
	return StudentResponse{
		ID:            s.ID,
		Name:          s.Name,
		RollNumber:    s.RollNumber,
		Course:        s.Course,
		CollegeID:     s.CollegeID,
		ReceivedItems: received,
		CreatedAt:     s.CreatedAt,
	}
}

// ToStaffResponse converts a staff aggregate to a response
func ToStaffResponse(s *identity.Staff) StaffResponse {
	return StaffResponse{
		ID:                s.ID,
		Name:              s.Name,
		Email:             s.Email,
		AssignedCollegeID: s.AssignedCollegeID,
		CreatedAt:         s.CreatedAt,
	}
}

// IdentityService manages staff and student records
type IdentityService struct {
	scope  scope.TransactionScope
	logger *zap.Logger
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(txScope scope.TransactionScope, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{
		scope:  txScope,
		logger: logger,
	}
}

// CreateStudent registers a student
func (s *IdentityService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*StudentResponse, error) {
	var created *identity.Student
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		existing, err := repos.Students().FindByRollNumber(ctx, req.RollNumber)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "Student with roll number "+req.RollNumber+" already exists")
		}

		student, err := identity.NewStudent(req.Name, req.RollNumber, req.Course)
		if err != nil {
			return err
		}
		if req.CollegeID != nil {
			if _, err := repos.Colleges().FindByID(ctx, *req.CollegeID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewNotFoundError("College", *req.CollegeID)
				}
				return err
			}
			student.CollegeID = req.CollegeID
		}
		if err := repos.Students().Save(ctx, student); err != nil {
			return err
		}
		created = student
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("student registered",
		zap.String("student_id", created.ID.String()),
		zap.String("roll_number", created.RollNumber))

	response := ToStudentResponse(created)
	return &response, nil
}

// GetStudent returns a student by ID
func (s *IdentityService) GetStudent(ctx context.Context, id uuid.UUID) (*StudentResponse, error) {
	var found *identity.Student
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		student, err := repos.Students().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Student", id)
			}
			return err
		}
		found = student
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToStudentResponse(found)
	return &response, nil
}

// CreateStaff registers a staff member
func (s *IdentityService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*StaffResponse, error) {
	var created *identity.Staff
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		staff, err := identity.NewStaff(req.Name, req.Email)
		if err != nil {
			return err
		}
		if req.AssignedCollegeID != nil {
			if _, err := repos.Colleges().FindByID(ctx, *req.AssignedCollegeID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewNotFoundError("College", *req.AssignedCollegeID)
				}
				return err
			}
			staff.AssignCollege(*req.AssignedCollegeID)
		}
		if err := repos.Staff().Save(ctx, staff); err != nil {
			return err
		}
		created = staff
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("staff registered",
		zap.String("staff_id", created.ID.String()),
		zap.String("email", created.Email))

	response := ToStaffResponse(created)
	return &response, nil
}

// GetStaff returns a staff member by ID
func (s *IdentityService) GetStaff(ctx context.Context, id uuid.UUID) (*StaffResponse, error) {
	var found *identity.Staff
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		staff, err := repos.Staff().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Staff", id)
			}
			return err
		}
		found = staff
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToStaffResponse(found)
	return &response, nil
}

// AssignStaffCollege assigns a staff member to a college
func (s *IdentityService) AssignStaffCollege(ctx context.Context, staffID uuid.UUID, req AssignCollegeRequest) (*StaffResponse, error) {
	var updated *identity.Staff
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		staff, err := repos.Staff().FindByID(ctx, staffID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Staff", staffID)
			}
			return err
		}
		if _, err := repos.Colleges().FindByID(ctx, req.CollegeID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("College", req.CollegeID)
			}
			return err
		}
		staff.AssignCollege(req.CollegeID)
		if err := repos.Staff().Save(ctx, staff); err != nil {
			return err
		}
		updated = staff
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToStaffResponse(updated)
	return &response, nil
}
