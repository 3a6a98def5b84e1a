package catalog

import (
	"time"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	Name    string          `json:"name" binding:"required"`
	SKU     string          `json:"sku" binding:"required"`
	Catalog string          `json:"catalog" binding:"required,catalogkind"`
	Price   decimal.Decimal `json:"price"`
}

// UpdateProductRequest is the request to update a product. Nil fields
// keep the stored value.
type UpdateProductRequest struct {
	Name  *string          `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// SetEntryRequest is one component line of a set configuration
type SetEntryRequest struct {
	ComponentID uuid.UUID `json:"component_id" binding:"required"`
	Quantity    int64     `json:"quantity" binding:"required,min=1"`
}

// ConfigureSetRequest is the request to configure a product as a set.
// An empty entry list clears the set configuration.
type ConfigureSetRequest struct {
	Entries []SetEntryRequest `json:"entries"`
}

// SetItemResponse is one component line of a set product
type SetItemResponse struct {
	ComponentID uuid.UUID       `json:"component_id"`
	Name        string          `json:"name"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	SKU          string            `json:"sku"`
	Catalog      string            `json:"catalog"`
	Price        decimal.Decimal   `json:"price"`
	CentralStock int64             `json:"central_stock"`
	IsSet        bool              `json:"is_set"`
	SetItems     []SetItemResponse `json:"set_items,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Version      int               `json:"version"`
}

// ToProductResponse converts a product aggregate to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	items := make([]SetItemResponse, 0, len(p.SetItems))
	for _, item := range p.SetItems {
		items = append(items, SetItemResponse{
			ComponentID: item.ComponentID,
			Name:        item.NameSnapshot,
			Quantity:    item.Quantity,
			Price:       item.PriceSnapshot,
		})
	}

	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Catalog:      string(p.Catalog),
		Price:        p.Price,
		CentralStock: p.CentralStock,
		IsSet:        p.IsSet,
		SetItems:     items,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ListProductsRequest is the request to list products
type ListProductsRequest struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	Catalog  string `form:"catalog"`
	Search   string `form:"search"`
}
