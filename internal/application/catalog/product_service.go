// Package catalog implements product management, including set (bundle)
// configuration.
package catalog

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/application/scope"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService orchestrates product management
type ProductService struct {
	scope     scope.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(txScope scope.TransactionScope, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		scope:  txScope,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates a plain product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	kind := catalog.CatalogKind(req.Catalog)
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Invalid catalog kind: " + req.Catalog)
	}

	var created *catalog.Product
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		existing, err := repos.Products().FindBySKU(ctx, req.SKU)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "Product with SKU "+req.SKU+" already exists")
		}

		p, err := catalog.NewProduct(req.Name, req.SKU, kind, req.Price)
		if err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)

	s.logger.Info("product created",
		zap.String("product_id", created.ID.String()),
		zap.String("sku", created.SKU))

	response := ToProductResponse(created)
	return &response, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	var found *catalog.Product
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		p, err := repos.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		found = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(found)
	return &response, nil
}

// List returns products matching the request, paginated
func (s *ProductService) List(ctx context.Context, req ListProductsRequest) (*shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.Catalog != "" {
		filter.Filters["catalog"] = req.Catalog
	}
	filter.Search = req.Search

	var products []catalog.Product
	var total int64
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		products, err = repos.Products().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.Products().Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update renames or reprices a product. Uses optimistic locking so a
// concurrent edit surfaces as a conflict instead of a silent overwrite.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	var updated *catalog.Product
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		p, err := repos.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			if err := p.Rename(*req.Name); err != nil {
				return err
			}
		}
		if req.Price != nil {
			if err := p.ChangePrice(*req.Price); err != nil {
				return err
			}
		}

		if err := repos.Products().SaveWithLock(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(updated)
	return &response, nil
}

// ConfigureSet configures a product as a set of the given components,
// or clears the configuration when the entry list is empty
func (s *ProductService) ConfigureSet(ctx context.Context, id uuid.UUID, req ConfigureSetRequest) (*ProductResponse, error) {
	var configured *catalog.Product
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		p, err := repos.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if len(req.Entries) == 0 {
			p.ClearSet()
			if err := repos.Products().SaveWithLock(ctx, p); err != nil {
				return err
			}
			configured = p
			return nil
		}

		ids := make([]uuid.UUID, 0, len(req.Entries))
		for _, entry := range req.Entries {
			ids = append(ids, entry.ComponentID)
		}
		components, err := repos.Products().FindByIDs(ctx, ids)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(components))
		for i := range components {
			byID[components[i].ID] = &components[i]
		}

		entries := make([]catalog.SetEntry, 0, len(req.Entries))
		for _, entry := range req.Entries {
			component, ok := byID[entry.ComponentID]
			if !ok {
				return shared.NewNotFoundError("Product", entry.ComponentID)
			}
			entries = append(entries, catalog.SetEntry{Component: component, Quantity: entry.Quantity})
		}

		if err := p.ConfigureSet(entries); err != nil {
			return err
		}
		if err := repos.Products().SaveWithLock(ctx, p); err != nil {
			return err
		}
		configured = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, configured)

	s.logger.Info("product set configured",
		zap.String("product_id", configured.ID.String()),
		zap.Int("components", len(configured.SetItems)))

	response := ToProductResponse(configured)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Products().FindByID(ctx, id); err != nil {
			return err
		}
		return repos.Products().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) publishEvents(ctx context.Context, p *catalog.Product) {
	if s.publisher == nil || p == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish product events",
			zap.String("product_id", p.ID.String()), zap.Error(err))
	}
	p.ClearDomainEvents()
}
