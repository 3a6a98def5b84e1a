package catalog

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Requirement is one ledger deduction implied by a requested product.
// For a plain product it is the product itself with PerUnit 1; for a set
// product there is one requirement per component.
type Requirement struct {
	Product  *Product
	PerUnit  int64 // component multiplier (1 for plain products)
	Required int64 // requested quantity × PerUnit
	FromSet  bool  // true when the requirement comes from a bundle component
}

// SetResolver expands sellable products into their component deduction
// requirements. Callers use it uniformly so purchase logic branches on
// set-ness exactly once.
type SetResolver struct {
	products ProductRepository
}

// NewSetResolver creates a new SetResolver
func NewSetResolver(products ProductRepository) *SetResolver {
	return &SetResolver{products: products}
}

// Expand resolves a product at the requested quantity into ledger
// requirements. Plain products resolve to themselves with multiplier 1.
// A set with no components, or a set referencing a component that can no
// longer be loaded, fails with INVALID_SET_CONFIGURATION.
func (r *SetResolver) Expand(ctx context.Context, product *Product, quantity int64) ([]Requirement, error) {
	if product == nil {
		return nil, shared.NewValidationError("Product cannot be nil")
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("Requested quantity must be at least 1")
	}

	if !product.IsSet {
		return []Requirement{{
			Product:  product,
			PerUnit:  1,
			Required: quantity,
		}}, nil
	}

	if len(product.SetItems) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidSetConfiguration,
			"Set "+product.Name+" has no components configured")
	}

	ids := make([]uuid.UUID, 0, len(product.SetItems))
	for _, item := range product.SetItems {
		ids = append(ids, item.ComponentID)
	}

	components, err := r.products.FindByIDs(ctx, ids)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	byID := make(map[uuid.UUID]*Product, len(components))
	for i := range components {
		byID[components[i].ID] = &components[i]
	}

	requirements := make([]Requirement, 0, len(product.SetItems))
	for _, item := range product.SetItems {
		component, ok := byID[item.ComponentID]
		if !ok {
			return nil, shared.NewDomainError(shared.CodeInvalidSetConfiguration,
				"Set "+product.Name+" references component "+item.NameSnapshot+" which no longer exists")
		}
		if component.IsSet {
			// Nested sets cannot be deducted one level deep; refuse rather
			// than guessing at recursive expansion.
			return nil, shared.NewDomainError(shared.CodeInvalidSetConfiguration,
				"Set "+product.Name+" references component "+component.Name+" which is itself a set")
		}
		requirements = append(requirements, Requirement{
			Product:  component,
			PerUnit:  item.Quantity,
			Required: quantity * item.Quantity,
			FromSet:  true,
		})
	}

	return requirements, nil
}
