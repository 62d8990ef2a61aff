package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id), id.String())
}

// FindBySlug finds a product by its URL slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return r.first(r.db.WithContext(ctx).Where("slug = ?", slug), slug)
}

// FindByIDForUpdate loads a product holding a row lock until the transaction ends
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id), id.String())
}

func (r *GormProductRepository) first(query *gorm.DB, key string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.Withf("Product %s not found", key)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs. Unknown ids are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// FindAll lists products ordered by category then name
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyAvailable {
		query = query.Where("sold_out = ?", false)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", like, like)
	}
	query = query.Order("category ASC").Order("name ASC")
	if !filter.Unpaged {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	var rows []models.ProductModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// ExistsBySlug checks whether a slug is taken
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists.Withf("Product slug %q already exists", product.Slug)
		}
		return err
	}
	return nil
}

// SaveDetails updates every column except base price, overrides and sell price
func (r *GormProductRepository) SaveDetails(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"slug":                product.Slug,
			"name":                product.Name,
			"category":            product.Category,
			"description":         product.Description,
			"image":               product.Image,
			"supplier_product_id": product.SupplierProductID,
			"sold_out":            product.SoldOut,
			"updated_at":          product.UpdatedAt,
		})
	return expectOneRow(result, "Product", product.ID)
}

// FindPricedForUpdate locks and returns every product with a positive base price
func (r *GormProductRepository) FindPricedForUpdate(ctx context.Context, withoutOverrides bool) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("base_price > ?", 0)
	if withoutOverrides {
		// a non-positive price override is inert, so those rows follow the global markup
		query = query.Where("(price_override IS NULL OR price_override <= 0) AND markup_override IS NULL")
	}

	var rows []models.ProductModel
	// id order keeps concurrent lockers from deadlocking on each other
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// UpdateSellPrice persists a re-derived sell price
func (r *GormProductRepository) UpdateSellPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"sell_price": price, "updated_at": time.Now()})
	return expectOneRow(result, "Product", id)
}

// SavePricing persists the override fields and sell price of a product
func (r *GormProductRepository) SavePricing(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"price_override":  product.PriceOverride,
			"markup_override": product.MarkupOverride,
			"sell_price":      product.SellPrice,
			"updated_at":      product.UpdatedAt,
		})
	return expectOneRow(result, "Product", product.ID)
}

func toProducts(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

func expectOneRow(result *gorm.DB, entity string, id uuid.UUID) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.Withf("%s %s not found", entity, id)
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
