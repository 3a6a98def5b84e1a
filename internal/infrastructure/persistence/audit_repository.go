package persistence

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/domain/audit"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAuditRepository implements AuditRepository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// FindByID finds an audit by ID
func (r *GormAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.StockAudit, error) {
	var a audit.StockAudit
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindAll finds audits matching the filter
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.StockAudit, error) {
	var audits []audit.StockAudit
	query := r.db.WithContext(ctx).Model(&audit.StockAudit{})
	if err := applyFilter(query, filter).Find(&audits).Error; err != nil {
		return nil, err
	}
	return audits, nil
}

// FindPending finds audits awaiting review
func (r *GormAuditRepository) FindPending(ctx context.Context, filter shared.Filter) ([]audit.StockAudit, error) {
	var audits []audit.StockAudit
	query := r.db.WithContext(ctx).Model(&audit.StockAudit{}).
		Where("status = ?", audit.StatusPending)
	if err := applyFilter(query, filter).Find(&audits).Error; err != nil {
		return nil, err
	}
	return audits, nil
}

// Save creates or updates an audit
func (r *GormAuditRepository) Save(ctx context.Context, a *audit.StockAudit) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(a).Error
}

// Delete deletes an audit
func (r *GormAuditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&audit.StockAudit{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts audits matching the filter
func (r *GormAuditRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&audit.StockAudit{})
	if err := applyFilterWithoutPagination(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ audit.AuditRepository = (*GormAuditRepository)(nil)
