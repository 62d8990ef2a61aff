package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductFilter narrows catalog listings
type ProductFilter struct {
	shared.Filter
	Category      string
	OnlyAvailable bool
	// Unpaged returns every matching row
	Unpaged bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by its URL slug
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll lists products ordered by category then name
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// ExistsBySlug checks whether a slug is taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveDetails updates every column except the pricing fields, so it never
	// races with a concurrent repricing
	SaveDetails(ctx context.Context, product *Product) error

	// FindByIDForUpdate loads a product holding a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindPricedForUpdate locks and returns every product with a positive base price.
	// withoutOverrides restricts the set to products with neither override.
	FindPricedForUpdate(ctx context.Context, withoutOverrides bool) ([]Product, error)

	// UpdateSellPrice persists a re-derived sell price
	UpdateSellPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error

	// SavePricing persists the override fields and sell price of a product
	SavePricing(ctx context.Context, product *Product) error
}
