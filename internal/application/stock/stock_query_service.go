// Package stock exposes read-side availability queries over the central
// and college ledgers.
package stock

import (
	"context"
	"errors"
	"sort"

	"github.com/campusstore/backend/internal/application/scope"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductStockResponse is one ledger cell enriched with product details
type ProductStockResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Catalog   string    `json:"catalog"`
	Quantity  int64     `json:"quantity"`
}

// StockQueryService answers availability questions. It is read-only;
// all writes go through the transaction, transfer and audit services.
type StockQueryService struct {
	scope  scope.TransactionScope
	logger *zap.Logger
}

// NewStockQueryService creates a new StockQueryService
func NewStockQueryService(txScope scope.TransactionScope, logger *zap.Logger) *StockQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockQueryService{
		scope:  txScope,
		logger: logger,
	}
}

// CentralStock returns every product with central stock in the catalog
func (s *StockQueryService) CentralStock(ctx context.Context, kind catalog.CatalogKind) ([]ProductStockResponse, error) {
	return s.snapshot(ctx, stock.Central(kind))
}

// CollegeStock returns every product a college holds in the catalog
func (s *StockQueryService) CollegeStock(ctx context.Context, collegeID uuid.UUID, kind catalog.CatalogKind) ([]ProductStockResponse, error) {
	if collegeID == uuid.Nil {
		return nil, shared.NewValidationError("College ID is required")
	}
	return s.snapshot(ctx, stock.AtCollege(collegeID, kind))
}

// Availability returns the quantity of one product in one ledger cell.
// A nil collegeID reads the central ledger.
func (s *StockQueryService) Availability(ctx context.Context, collegeID *uuid.UUID, productID uuid.UUID) (*ProductStockResponse, error) {
	var response *ProductStockResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		product, err := repos.Products().FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Product", productID)
			}
			return err
		}

		target := stock.Central(product.Catalog)
		if collegeID != nil && *collegeID != uuid.Nil {
			target = stock.AtCollege(*collegeID, product.Catalog)
		}
		quantity, err := repos.Ledger().Get(ctx, target, productID)
		if err != nil {
			return err
		}

		response = &ProductStockResponse{
			ProductID: product.ID,
			Name:      product.Name,
			SKU:       product.SKU,
			Catalog:   string(product.Catalog),
			Quantity:  quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (s *StockQueryService) snapshot(ctx context.Context, target stock.Scope) ([]ProductStockResponse, error) {
	var responses []ProductStockResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		cells, err := repos.Ledger().Snapshot(ctx, target)
		if err != nil {
			return err
		}
		if len(cells) == 0 {
			responses = make([]ProductStockResponse, 0)
			return nil
		}

		ids := make([]uuid.UUID, 0, len(cells))
		for productID := range cells {
			ids = append(ids, productID)
		}
		products, err := repos.Products().FindByIDs(ctx, ids)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		responses = make([]ProductStockResponse, 0, len(products))
		for i := range products {
			product := &products[i]
			responses = append(responses, ProductStockResponse{
				ProductID: product.ID,
				Name:      product.Name,
				SKU:       product.SKU,
				Catalog:   string(product.Catalog),
				Quantity:  cells[product.ID],
			})
		}
		sort.Slice(responses, func(i, j int) bool {
			return responses[i].Name < responses[j].Name
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}
