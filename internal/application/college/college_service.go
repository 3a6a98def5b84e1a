// Package college implements college location management.
package college

import (
	"context"
	"errors"
	"time"

	"github.com/campusstore/backend/internal/application/scope"
	"github.com/campusstore/backend/internal/domain/college"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateCollegeRequest is the request to create a college
type CreateCollegeRequest struct {
	Name    string   `json:"name" binding:"required"`
	Code    string   `json:"code" binding:"required"`
	Courses []string `json:"courses,omitempty"`
}

// UpdateCoursesRequest replaces a college's course list
type UpdateCoursesRequest struct {
	Courses []string `json:"courses"`
}

// CollegeResponse is the API representation of a college
type CollegeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Courses   []string  `json:"courses"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCollegeResponse converts a college aggregate to a response
func ToCollegeResponse(c *college.College) CollegeResponse {
	return CollegeResponse{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		Courses:   c.Courses,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CollegeService orchestrates college management
type CollegeService struct {
	scope  scope.TransactionScope
	logger *zap.Logger
}

// NewCollegeService creates a new CollegeService
func NewCollegeService(txScope scope.TransactionScope, logger *zap.Logger) *CollegeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollegeService{
		scope:  txScope,
		logger: logger,
	}
}

// Create creates a college
func (s *CollegeService) Create(ctx context.Context, req CreateCollegeRequest) (*CollegeResponse, error) {
	var created *college.College
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		existing, err := repos.Colleges().FindByCode(ctx, req.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "College with code "+req.Code+" already exists")
		}

		c, err := college.NewCollege(req.Name, req.Code, req.Courses)
		if err != nil {
			return err
		}
		if err := repos.Colleges().Save(ctx, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("college created",
		zap.String("college_id", created.ID.String()),
		zap.String("code", created.Code))

	response := ToCollegeResponse(created)
	return &response, nil
}

// Get returns a college by ID
func (s *CollegeService) Get(ctx context.Context, id uuid.UUID) (*CollegeResponse, error) {
	var found *college.College
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		c, err := repos.Colleges().FindByID(ctx, id)
		if err != nil {
			return err
		}
		found = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToCollegeResponse(found)
	return &response, nil
}

// List returns all colleges, paginated
func (s *CollegeService) List(ctx context.Context, page, pageSize int) (*shared.Paginated[CollegeResponse], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	var colleges []college.College
	var total int64
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		colleges, err = repos.Colleges().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.Colleges().Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]CollegeResponse, 0, len(colleges))
	for i := range colleges {
		responses = append(responses, ToCollegeResponse(&colleges[i]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateCourses replaces a college's course list
func (s *CollegeService) UpdateCourses(ctx context.Context, id uuid.UUID, req UpdateCoursesRequest) (*CollegeResponse, error) {
	var updated *college.College
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		c, err := repos.Colleges().FindByID(ctx, id)
		if err != nil {
			return err
		}
		c.UpdateCourses(req.Courses)
		if err := repos.Colleges().Save(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToCollegeResponse(updated)
	return &response, nil
}
