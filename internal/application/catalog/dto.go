package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=200"`
	Category          string          `json:"category" binding:"max=100"`
	Description       string          `json:"description" binding:"max=4000"`
	Image             string          `json:"image" binding:"max=500"`
	BasePrice         decimal.Decimal `json:"base_price"`
	SupplierProductID string          `json:"supplier_product_id" binding:"max=100"`
}

// ProductResponse is the public view of a product
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	SoldOut     bool            `json:"sold_out"`
}

// PricingRow is the admin view of a product's pricing inputs and output
type PricingRow struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Category          string           `json:"category"`
	BasePrice         decimal.Decimal  `json:"base_price"`
	SellPrice         decimal.Decimal  `json:"sell_price"`
	PriceOverride     *decimal.Decimal `json:"price_override"`
	MarkupOverride    *decimal.Decimal `json:"markup_override"`
	SupplierProductID *string          `json:"supplier_product_id"`
	SoldOut           bool             `json:"sold_out"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// PricingTable is the global markup plus every product's pricing row
type PricingTable struct {
	GlobalMarkup decimal.Decimal `json:"global_markup"`
	Products     []PricingRow    `json:"products"`
}

// GlobalMarkupResult reports a global markup change
type GlobalMarkupResult struct {
	GlobalMarkup decimal.Decimal `json:"global_markup"`
	Updated      int             `json:"updated"`
	Changed      int             `json:"changed"`
}

// RecalcResult reports a full recomputation
type RecalcResult struct {
	Updated int `json:"updated"`
	Changed int `json:"changed"`
}

// ToProductResponse converts a product to its public view
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.SellPrice,
		SoldOut:     p.SoldOut,
	}
}

// ToPricingRow converts a product to its admin pricing view
func ToPricingRow(p *catalog.Product) PricingRow {
	return PricingRow{
		ID:                p.ID,
		Name:              p.Name,
		Category:          p.Category,
		BasePrice:         p.BasePrice,
		SellPrice:         p.SellPrice,
		PriceOverride:     p.PriceOverride,
		MarkupOverride:    p.MarkupOverride,
		SupplierProductID: p.SupplierProductID,
		SoldOut:           p.SoldOut,
		UpdatedAt:         p.UpdatedAt,
	}
}
