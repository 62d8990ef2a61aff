package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

var (
	// DefaultGlobalMarkup is used until an operator stores a global markup.
	DefaultGlobalMarkup = decimal.NewFromInt(25)
	// MaxMarkupPercent is the highest accepted markup percentage.
	MaxMarkupPercent = decimal.NewFromInt(500)

	hundred = decimal.NewFromInt(100)
)

// Pricing errors
var (
	ErrInvalidMarkup        = shared.NewDomainError("INVALID_MARKUP", "Markup percentage must be between 0 and 500")
	ErrInvalidPriceOverride = shared.NewDomainError("INVALID_PRICE_OVERRIDE", "Price override cannot be negative")
)

// ResolveSellPrice computes the customer-facing price of a product.
//
// Precedence: a positive price override wins outright, then a non-negative markup
// override, then the global markup. Marked-up prices are rounded to whole currency
// units, half away from zero. The second result is false when basePrice is not
// positive, in which case the product is unpriced and the caller must leave its
// stored sell price alone.
//
// Inputs are assumed to be validated; negative overrides never reach this function.
func ResolveSellPrice(basePrice decimal.Decimal, priceOverride, markupOverride *decimal.Decimal, globalMarkup decimal.Decimal) (decimal.Decimal, bool) {
	if priceOverride != nil && priceOverride.IsPositive() {
		return *priceOverride, true
	}
	if !basePrice.IsPositive() {
		return decimal.Zero, false
	}

	markup := globalMarkup
	if markupOverride != nil && !markupOverride.IsNegative() {
		markup = *markupOverride
	}

	factor := decimal.NewFromInt(1).Add(markup.Div(hundred))
	return basePrice.Mul(factor).Round(0), true
}

// ValidateMarkup checks a markup percentage against the accepted 0..500 range.
func ValidateMarkup(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(MaxMarkupPercent) {
		return ErrInvalidMarkup.Withf("Markup percentage must be between 0 and 500, got %s", percent.String())
	}
	return nil
}

// ValidatePriceOverride rejects negative absolute overrides. Nil clears the override.
func ValidatePriceOverride(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return ErrInvalidPriceOverride
	}
	return nil
}
