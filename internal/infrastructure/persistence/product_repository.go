package persistence

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID, preloading set items
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	err := r.db.WithContext(ctx).
		Preload("SetItems", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs, preloading set items
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var products []catalog.Product
	err := r.db.WithContext(ctx).
		Preload("SetItems", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindBySKU finds a product by SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var product catalog.Product
	err := r.db.WithContext(ctx).
		Preload("SetItems").
		First(&product, "sku = ?", sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Preload("SetItems")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ?", pattern, pattern)
	}
	if err := applyFilter(query, filter).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product together with its set items.
// Set items are replaced wholesale so a reconfiguration leaves no
// orphaned rows.
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(p).Error; err != nil {
		return err
	}

	if err := db.Where("product_id = ?", p.ID).Delete(&catalog.SetItem{}).Error; err != nil {
		return err
	}
	if len(p.SetItems) > 0 {
		if err := db.Create(&p.SetItems).Error; err != nil {
			return err
		}
	}
	return nil
}

// SaveWithLock saves with optimistic locking against the loaded version
func (r *GormProductRepository) SaveWithLock(ctx context.Context, p *catalog.Product) error {
	db := r.db.WithContext(ctx)

	res := db.Model(&catalog.Product{}).
		Where("id = ? AND version < ?", p.ID, p.Version).
		Omit("SetItems").
		Select("*").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if err := db.Where("product_id = ?", p.ID).Delete(&catalog.SetItem{}).Error; err != nil {
		return err
	}
	if len(p.SetItems) > 0 {
		if err := db.Create(&p.SetItems).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a product and its set items
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", id).Delete(&catalog.SetItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&catalog.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ?", pattern, pattern)
	}
	if err := applyFilterWithoutPagination(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
