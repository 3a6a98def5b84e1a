package persistence

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer by ID, preloading items
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.StockTransfer, error) {
	var t transfer.StockTransfer
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds transfers matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.StockTransfer, error) {
	var transfers []transfer.StockTransfer
	query := r.db.WithContext(ctx).Model(&transfer.StockTransfer{}).Preload("Items")
	if err := applyFilter(query, filter).Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindByStatus finds transfers with the given status
func (r *GormTransferRepository) FindByStatus(ctx context.Context, status transfer.TransferStatus, filter shared.Filter) ([]transfer.StockTransfer, error) {
	var transfers []transfer.StockTransfer
	query := r.db.WithContext(ctx).Model(&transfer.StockTransfer{}).
		Preload("Items").
		Where("status = ?", status)
	if err := applyFilter(query, filter).Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindByCollege finds transfers destined for a college
func (r *GormTransferRepository) FindByCollege(ctx context.Context, collegeID uuid.UUID, filter shared.Filter) ([]transfer.StockTransfer, error) {
	var transfers []transfer.StockTransfer
	query := r.db.WithContext(ctx).Model(&transfer.StockTransfer{}).
		Preload("Items").
		Where("to_college_id = ?", collegeID)
	if err := applyFilter(query, filter).Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a transfer together with its items
func (r *GormTransferRepository) Save(ctx context.Context, t *transfer.StockTransfer) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(t).Error; err != nil {
		return err
	}

	if err := db.Where("transfer_id = ?", t.ID).Delete(&transfer.TransferItem{}).Error; err != nil {
		return err
	}
	if len(t.Items) > 0 {
		if err := db.Create(&t.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a transfer and its items
func (r *GormTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("transfer_id = ?", id).Delete(&transfer.TransferItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&transfer.StockTransfer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts transfers matching the filter
func (r *GormTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&transfer.StockTransfer{})
	if err := applyFilterWithoutPagination(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ transfer.TransferRepository = (*GormTransferRepository)(nil)
