package persistence

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by ID, preloading items and components
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Transaction, error) {
	var tx sales.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Components").
		First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindAll finds transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Transaction, error) {
	var transactions []sales.Transaction
	query := r.db.WithContext(ctx).Model(&sales.Transaction{}).
		Preload("Items").
		Preload("Items.Components")
	if err := applyFilter(query, filter).Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByCollege finds transactions for a college
func (r *GormTransactionRepository) FindByCollege(ctx context.Context, collegeID uuid.UUID, filter shared.Filter) ([]sales.Transaction, error) {
	var transactions []sales.Transaction
	query := r.db.WithContext(ctx).Model(&sales.Transaction{}).
		Preload("Items").
		Preload("Items.Components").
		Where("college_id = ?", collegeID)
	if err := applyFilter(query, filter).Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByStudent finds transactions for a student
func (r *GormTransactionRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, filter shared.Filter) ([]sales.Transaction, error) {
	var transactions []sales.Transaction
	query := r.db.WithContext(ctx).Model(&sales.Transaction{}).
		Preload("Items").
		Preload("Items.Components").
		Where("student_id = ?", studentID)
	if err := applyFilter(query, filter).Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// Save creates or updates a transaction together with its items.
// Items and components are replaced wholesale so an edit leaves no
// orphaned rows.
func (r *GormTransactionRepository) Save(ctx context.Context, t *sales.Transaction) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(t).Error; err != nil {
		return err
	}

	if err := r.deleteChildren(db, t.ID); err != nil {
		return err
	}
	if len(t.Items) > 0 {
		if err := db.Create(&t.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a transaction and its items
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := r.deleteChildren(db, id); err != nil {
		return err
	}
	res := db.Delete(&sales.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sales.Transaction{})
	if err := applyFilterWithoutPagination(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTransactionRepository) deleteChildren(db *gorm.DB, transactionID uuid.UUID) error {
	err := db.Where("transaction_item_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).
			Model(&sales.TransactionItem{}).
			Select("id").
			Where("transaction_id = ?", transactionID),
	).Delete(&sales.SetComponentRecord{}).Error
	if err != nil {
		return err
	}
	return db.Where("transaction_id = ?", transactionID).Delete(&sales.TransactionItem{}).Error
}

var _ sales.TransactionRepository = (*GormTransactionRepository)(nil)
