package catalog

import (
	"time"

	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogKind distinguishes the two independent product catalogs.
// Each kind has its own ledger per college.
type CatalogKind string

const (
	CatalogStationery CatalogKind = "STATIONERY"
	CatalogGeneral    CatalogKind = "GENERAL"
)

// IsValid checks if the kind is a valid CatalogKind
func (k CatalogKind) IsValid() bool {
	return k == CatalogStationery || k == CatalogGeneral
}

// String returns the string representation of CatalogKind
func (k CatalogKind) String() string {
	return string(k)
}

// SetItem is one component line of a set (bundle) product.
// Name and price are snapshotted at configuration time so historical
// transactions stay readable after the component is renamed or repriced.
type SetItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity      int64           `gorm:"not null"`
	NameSnapshot  string          `gorm:"size:255;not null"`
	PriceSnapshot decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SortOrder     int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SetItem) TableName() string {
	return "product_set_items"
}

// Product is the aggregate root for a sellable product. A product either
// sells as itself or, when IsSet is true, decomposes into its SetItems at
// purchase time. CentralStock is the central warehouse ledger cell for
// this product.
type Product struct {
	shared.BaseAggregateRoot
	Name         string          `gorm:"size:255;not null"`
	SKU          string          `gorm:"size:64;not null;uniqueIndex"`
	Catalog      CatalogKind     `gorm:"size:16;not null;index"`
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CentralStock int64           `gorm:"not null;default:0"`
	IsSet        bool            `gorm:"not null;default:false"`

	SetItems []SetItem `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new non-set product
func NewProduct(name, sku string, catalog CatalogKind, price decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewValidationError("Product SKU cannot be empty")
	}
	if !catalog.IsValid() {
		return nil, shared.NewValidationError("Invalid catalog kind")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Product price cannot be negative")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		Catalog:           catalog,
		Price:             price,
		CentralStock:      0,
		IsSet:             false,
		SetItems:          make([]SetItem, 0),
	}

	p.AddDomainEvent(NewProductCreatedEvent(p))

	return p, nil
}

// SetEntry pairs a resolved component product with the per-set quantity.
// The component must be loaded by the caller so configuration can be
// validated against its current state.
type SetEntry struct {
	Component *Product
	Quantity  int64
}

// ConfigureSet turns the product into a set of the given components.
// Components must be non-set products from the same catalog; bundling is
// one level deep only.
func (p *Product) ConfigureSet(entries []SetEntry) error {
	if len(entries) == 0 {
		return shared.NewDomainError(shared.CodeInvalidSetConfiguration, "A set must have at least one component")
	}

	seen := make(map[uuid.UUID]bool, len(entries))
	items := make([]SetItem, 0, len(entries))
	for i, entry := range entries {
		if entry.Component == nil {
			return shared.NewDomainError(shared.CodeInvalidSetConfiguration, "Set component cannot be nil")
		}
		if entry.Component.ID == p.ID {
			return shared.NewDomainError(shared.CodeInvalidSetConfiguration, "A set cannot contain itself")
		}
		if entry.Component.IsSet {
			return shared.NewDomainError(shared.CodeInvalidSetConfiguration,
				"Set component "+entry.Component.Name+" is itself a set; components must be non-set products")
		}
		if entry.Component.Catalog != p.Catalog {
			return shared.NewDomainError(shared.CodeInvalidSetConfiguration,
				"Set component "+entry.Component.Name+" belongs to a different catalog")
		}
		if entry.Quantity < 1 {
			return shared.NewValidationError("Set component quantity must be at least 1")
		}
		if seen[entry.Component.ID] {
			return shared.NewDomainError(shared.CodeInvalidSetConfiguration,
				"Set component "+entry.Component.Name+" is listed more than once")
		}
		seen[entry.Component.ID] = true

		items = append(items, SetItem{
			ID:            uuid.New(),
			ProductID:     p.ID,
			ComponentID:   entry.Component.ID,
			Quantity:      entry.Quantity,
			NameSnapshot:  entry.Component.Name,
			PriceSnapshot: entry.Component.Price,
			SortOrder:     i,
		})
	}

	p.IsSet = true
	p.SetItems = items
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductSetConfiguredEvent(p))

	return nil
}

// ClearSet turns a set product back into a plain product
func (p *Product) ClearSet() {
	p.IsSet = false
	p.SetItems = make([]SetItem, 0)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Rename changes the product name
func (p *Product) Rename(name string) error {
	if name == "" {
		return shared.NewValidationError("Product name cannot be empty")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ChangePrice changes the selling price
func (p *Product) ChangePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Product price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// HasCentralStock returns true if the requested quantity is available centrally
func (p *Product) HasCentralStock(quantity int64) bool {
	return p.CentralStock >= quantity
}
