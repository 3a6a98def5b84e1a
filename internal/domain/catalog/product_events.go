package catalog

import (
	"github.com/campusstore/backend/internal/domain/shared"
)

// Event types for the catalog module
const (
	EventTypeProductCreated       = "catalog.product.created"
	EventTypeProductSetConfigured = "catalog.product.set_configured"
)

// ProductCreatedEvent is emitted when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name    string      `json:"name"`
	SKU     string      `json:"sku"`
	Catalog CatalogKind `json:"catalog"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID),
		Name:            p.Name,
		SKU:             p.SKU,
		Catalog:         p.Catalog,
	}
}

// ProductSetConfiguredEvent is emitted when a product's set composition changes
type ProductSetConfiguredEvent struct {
	shared.BaseDomainEvent
	ComponentCount int `json:"component_count"`
}

// NewProductSetConfiguredEvent creates a new ProductSetConfiguredEvent
func NewProductSetConfiguredEvent(p *Product) *ProductSetConfiguredEvent {
	return &ProductSetConfiguredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductSetConfigured, "Product", p.ID),
		ComponentCount:  len(p.SetItems),
	}
}
