package persistence

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/domain/college"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCollegeRepository implements CollegeRepository using GORM
type GormCollegeRepository struct {
	db *gorm.DB
}

// NewGormCollegeRepository creates a new GormCollegeRepository
func NewGormCollegeRepository(db *gorm.DB) *GormCollegeRepository {
	return &GormCollegeRepository{db: db}
}

// FindByID finds a college by its ID
func (r *GormCollegeRepository) FindByID(ctx context.Context, id uuid.UUID) (*college.College, error) {
	var c college.College
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByCode finds a college by its code
func (r *GormCollegeRepository) FindByCode(ctx context.Context, code string) (*college.College, error) {
	var c college.College
	if err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByCourse finds the college whose course list contains the course.
// The course list is a serialized JSON column, so matching happens in
// memory; the college table is small by nature.
func (r *GormCollegeRepository) FindByCourse(ctx context.Context, course string) (*college.College, error) {
	var colleges []college.College
	if err := r.db.WithContext(ctx).Find(&colleges).Error; err != nil {
		return nil, err
	}
	for i := range colleges {
		if colleges[i].OffersCourse(course) {
			return &colleges[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll finds colleges matching the filter
func (r *GormCollegeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]college.College, error) {
	var colleges []college.College
	query := r.db.WithContext(ctx).Model(&college.College{})
	if err := applyFilter(query, filter).Find(&colleges).Error; err != nil {
		return nil, err
	}
	return colleges, nil
}

// Save creates or updates a college
func (r *GormCollegeRepository) Save(ctx context.Context, c *college.College) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(c).Error
}

// Delete deletes a college
func (r *GormCollegeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&college.College{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts colleges matching the filter
func (r *GormCollegeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&college.College{})
	if err := applyFilterWithoutPagination(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ college.CollegeRepository = (*GormCollegeRepository)(nil)
