package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/college"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockLedger implements stock.Ledger over two storage shapes: the
// central ledger lives in products.central_stock while college ledgers
// live in college_stock_entries rows. Callers only see the Scope.
type GormStockLedger struct {
	db *gorm.DB
}

// NewGormStockLedger creates a new GORM-backed stock ledger
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// Get returns the quantity of a product in the scoped ledger (0 if absent)
func (l *GormStockLedger) Get(ctx context.Context, scope stock.Scope, productID uuid.UUID) (int64, error) {
	if scope.IsCentral() {
		var p catalog.Product
		err := l.db.WithContext(ctx).Select("id", "central_stock").
			Where("id = ? AND catalog = ?", productID, scope.Catalog).
			First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, nil
			}
			return 0, fmt.Errorf("failed to read central stock: %w", err)
		}
		return p.CentralStock, nil
	}

	var entry college.StockEntry
	err := l.db.WithContext(ctx).
		Where("college_id = ? AND catalog = ? AND product_id = ?", scope.CollegeID, scope.Catalog, productID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read stock entry: %w", err)
	}
	return entry.Quantity, nil
}

// GetMany returns quantities for a batch of products in one read.
// Products without a ledger cell are reported as zero.
func (l *GormStockLedger) GetMany(ctx context.Context, scope stock.Scope, productIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	result := make(map[uuid.UUID]int64, len(productIDs))
	for _, id := range productIDs {
		result[id] = 0
	}
	if len(productIDs) == 0 {
		return result, nil
	}

	if scope.IsCentral() {
		var products []catalog.Product
		err := l.db.WithContext(ctx).Select("id", "central_stock").
			Where("id IN ? AND catalog = ?", productIDs, scope.Catalog).
			Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("failed to read central stock: %w", err)
		}
		for _, p := range products {
			result[p.ID] = p.CentralStock
		}
		return result, nil
	}

	var entries []college.StockEntry
	err := l.db.WithContext(ctx).
		Where("college_id = ? AND catalog = ? AND product_id IN ?", scope.CollegeID, scope.Catalog, productIDs).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read stock entries: %w", err)
	}
	for _, entry := range entries {
		result[entry.ProductID] = entry.Quantity
	}
	return result, nil
}

// Snapshot returns every non-zero cell of the scoped ledger
func (l *GormStockLedger) Snapshot(ctx context.Context, scope stock.Scope) (map[uuid.UUID]int64, error) {
	result := make(map[uuid.UUID]int64)

	if scope.IsCentral() {
		var products []catalog.Product
		err := l.db.WithContext(ctx).Select("id", "central_stock").
			Where("catalog = ? AND central_stock > 0", scope.Catalog).
			Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot central stock: %w", err)
		}
		for _, p := range products {
			result[p.ID] = p.CentralStock
		}
		return result, nil
	}

	var entries []college.StockEntry
	err := l.db.WithContext(ctx).
		Where("college_id = ? AND catalog = ? AND quantity > 0", scope.CollegeID, scope.Catalog).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot stock entries: %w", err)
	}
	for _, entry := range entries {
		result[entry.ProductID] = entry.Quantity
	}
	return result, nil
}

// ApplyDelta applies a single delta, clamping the result at zero, and
// returns the delta actually applied. Applying a delta to a product that
// no longer exists is a no-op reported as zero applied.
func (l *GormStockLedger) ApplyDelta(ctx context.Context, scope stock.Scope, productID uuid.UUID, delta int64) (int64, error) {
	if delta == 0 {
		return 0, nil
	}

	current, err := l.Get(ctx, scope, productID)
	if err != nil {
		return 0, err
	}

	target := current + delta
	if target < 0 {
		target = 0
	}
	applied := target - current
	if applied == 0 {
		return 0, nil
	}

	if scope.IsCentral() {
		res := l.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("id = ? AND catalog = ?", productID, scope.Catalog).
			UpdateColumn("central_stock", target)
		if res.Error != nil {
			return 0, fmt.Errorf("failed to update central stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return 0, nil
		}
		return applied, nil
	}

	if current == 0 && applied > 0 {
		entry := college.StockEntry{
			ID:        uuid.New(),
			CollegeID: scope.CollegeID,
			Catalog:   scope.Catalog,
			ProductID: productID,
			Quantity:  target,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return 0, fmt.Errorf("failed to create stock entry: %w", err)
		}
		return applied, nil
	}

	res := l.db.WithContext(ctx).Model(&college.StockEntry{}).
		Where("college_id = ? AND catalog = ? AND product_id = ?", scope.CollegeID, scope.Catalog, productID).
		UpdateColumns(map[string]interface{}{
			"quantity":   target,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update stock entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	return applied, nil
}

// ApplyBatch applies a set of deltas and returns the per-product deltas
// actually applied after clamping. Products are touched in a stable
// order so concurrent batches over the same cells cannot deadlock.
func (l *GormStockLedger) ApplyBatch(ctx context.Context, scope stock.Scope, deltas stock.DeltaSet) (stock.DeltaSet, error) {
	ids := make([]uuid.UUID, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	applied := make(stock.DeltaSet, len(deltas))
	for _, id := range ids {
		got, err := l.ApplyDelta(ctx, scope, id, deltas[id])
		if err != nil {
			return nil, err
		}
		applied[id] = got
	}
	return applied, nil
}

// SetQuantity sets a ledger cell to an absolute value, creating the
// entry if it does not exist
func (l *GormStockLedger) SetQuantity(ctx context.Context, scope stock.Scope, productID uuid.UUID, quantity int64) error {
	if quantity < 0 {
		quantity = 0
	}

	if scope.IsCentral() {
		res := l.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("id = ? AND catalog = ?", productID, scope.Catalog).
			UpdateColumn("central_stock", quantity)
		if res.Error != nil {
			return fmt.Errorf("failed to set central stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to set central stock: product %s not found", productID)
		}
		return nil
	}

	res := l.db.WithContext(ctx).Model(&college.StockEntry{}).
		Where("college_id = ? AND catalog = ? AND product_id = ?", scope.CollegeID, scope.Catalog, productID).
		UpdateColumns(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to set stock entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		entry := college.StockEntry{
			ID:        uuid.New(),
			CollegeID: scope.CollegeID,
			Catalog:   scope.Catalog,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create stock entry: %w", err)
		}
	}
	return nil
}

// DecrementIfAvailable decrements a cell only if the current quantity
// covers the requested amount. The guard lives in the WHERE clause, so
// concurrent writers cannot both take the same units.
func (l *GormStockLedger) DecrementIfAvailable(ctx context.Context, scope stock.Scope, productID uuid.UUID, quantity int64) (bool, error) {
	if quantity < 1 {
		return false, nil
	}

	if scope.IsCentral() {
		res := l.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("id = ? AND catalog = ? AND central_stock >= ?", productID, scope.Catalog, quantity).
			UpdateColumn("central_stock", gorm.Expr("central_stock - ?", quantity))
		if res.Error != nil {
			return false, fmt.Errorf("failed to decrement central stock: %w", res.Error)
		}
		return res.RowsAffected == 1, nil
	}

	res := l.db.WithContext(ctx).Model(&college.StockEntry{}).
		Where("college_id = ? AND catalog = ? AND product_id = ? AND quantity >= ?",
			scope.CollegeID, scope.Catalog, productID, quantity).
		UpdateColumns(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement stock entry: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// RemoveIfZero deletes a college ledger entry when its quantity reached
// zero. No-op for the central ledger.
func (l *GormStockLedger) RemoveIfZero(ctx context.Context, scope stock.Scope, productID uuid.UUID) error {
	if scope.IsCentral() {
		return nil
	}

	err := l.db.WithContext(ctx).
		Where("college_id = ? AND catalog = ? AND product_id = ? AND quantity = 0",
			scope.CollegeID, scope.Catalog, productID).
		Delete(&college.StockEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove empty stock entry: %w", err)
	}
	return nil
}

var _ stock.Ledger = (*GormStockLedger)(nil)
