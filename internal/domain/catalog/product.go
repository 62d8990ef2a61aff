package catalog

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product represents a sellable catalog item.
// SellPrice is a cache of ResolveSellPrice over the pricing fields and the
// global markup; every write to those inputs re-derives it.
type Product struct {
	shared.BaseEntity
	Slug              string
	Name              string
	Category          string
	Description       string
	Image             string
	BasePrice         decimal.Decimal
	SellPrice         decimal.Decimal
	PriceOverride     *decimal.Decimal
	MarkupOverride    *decimal.Decimal
	SupplierProductID *string
	SoldOut           bool
}

// NewProduct creates a product and prices it against the given global markup
func NewProduct(name, category string, basePrice, globalMarkup decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BASE_PRICE", "Base price cannot be negative")
	}

	p := &Product{
		BaseEntity: shared.NewBaseEntity(),
		Slug:       slug.Make(name),
		Name:       name,
		Category:   strings.TrimSpace(category),
		BasePrice:  basePrice,
	}
	p.Reprice(globalMarkup)
	return p, nil
}

// IsPriced reports whether the product has a usable base price
func (p *Product) IsPriced() bool {
	return p.BasePrice.IsPositive()
}

// HasOverride reports whether either per-product override is set
func (p *Product) HasOverride() bool {
	return p.PriceOverride != nil || p.MarkupOverride != nil
}

// Reprice re-derives SellPrice. It returns true when the stored value changed.
// An unpriced product without a price override ends up with a zero sell price.
func (p *Product) Reprice(globalMarkup decimal.Decimal) bool {
	price, _ := ResolveSellPrice(p.BasePrice, p.PriceOverride, p.MarkupOverride, globalMarkup)
	if price.Equal(p.SellPrice) {
		return false
	}
	p.SellPrice = price
	p.Touch()
	return true
}

// SetPriceOverride pins (or clears with nil) an absolute sell price and
// reprices. Zero is stored as nil since the resolver ignores it anyway.
func (p *Product) SetPriceOverride(price *decimal.Decimal, globalMarkup decimal.Decimal) error {
	if err := ValidatePriceOverride(price); err != nil {
		return err
	}
	if price != nil && price.IsZero() {
		price = nil
	}
	p.PriceOverride = price
	p.Touch()
	p.Reprice(globalMarkup)
	return nil
}

// SetMarkupOverride sets (or clears with nil) a per-product markup and reprices
func (p *Product) SetMarkupOverride(percent *decimal.Decimal, globalMarkup decimal.Decimal) error {
	if percent != nil {
		if err := ValidateMarkup(*percent); err != nil {
			return err
		}
	}
	p.MarkupOverride = percent
	p.Touch()
	p.Reprice(globalMarkup)
	return nil
}

// SetSoldOut toggles availability
func (p *Product) SetSoldOut(soldOut bool) {
	p.SoldOut = soldOut
	p.Touch()
}

// MapToSupplier records the supplier's product id. An empty id clears the mapping.
func (p *Product) MapToSupplier(supplierProductID string) {
	supplierProductID = strings.TrimSpace(supplierProductID)
	if supplierProductID == "" {
		p.SupplierProductID = nil
	} else {
		p.SupplierProductID = &supplierProductID
	}
	p.Touch()
}

// HasSupplierMapping reports whether the product can be ordered from the supplier
func (p *Product) HasSupplierMapping() bool {
	return p.SupplierProductID != nil && *p.SupplierProductID != ""
}
