package persistence

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/domain/identity"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStudentRepository implements StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by ID
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Student, error) {
	var student identity.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// FindByRollNumber finds a student by roll number
func (r *GormStudentRepository) FindByRollNumber(ctx context.Context, rollNumber string) (*identity.Student, error) {
	var student identity.Student
	if err := r.db.WithContext(ctx).First(&student, "roll_number = ?", rollNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, s *identity.Student) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(s).Error
}

var _ identity.StudentRepository = (*GormStudentRepository)(nil)

// GormStaffRepository implements StaffRepository using GORM
type GormStaffRepository struct {
	db *gorm.DB
}

// NewGormStaffRepository creates a new GormStaffRepository
func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// FindByID finds a staff member by ID
func (r *GormStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).First(&staff, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// Save creates or updates a staff member
func (r *GormStaffRepository) Save(ctx context.Context, s *identity.Staff) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(s).Error
}

var _ identity.StaffRepository = (*GormStaffRepository)(nil)
