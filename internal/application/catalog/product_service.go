package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/setting"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const maxSlugAttempts = 20

// ProductService handles catalog maintenance outside of pricing
type ProductService struct {
	productRepo catalog.ProductRepository
	settingRepo setting.Repository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, settingRepo setting.Repository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{productRepo: productRepo, settingRepo: settingRepo, logger: logger}
}

// Create adds a product, priced against the current global markup
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*PricingRow, error) {
	global, err := loadGlobalMarkup(ctx, s.settingRepo, false)
	if err != nil {
		return nil, err
	}
	p, err := catalog.NewProduct(req.Name, req.Category, req.BasePrice, global)
	if err != nil {
		return nil, err
	}
	p.Description = req.Description
	p.Image = req.Image
	if req.SupplierProductID != "" {
		p.MapToSupplier(req.SupplierProductID)
	}

	slug, err := s.uniqueSlug(ctx, p.Slug)
	if err != nil {
		return nil, err
	}
	p.Slug = slug

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", p.ID.String()), zap.String("slug", p.Slug))
	row := ToPricingRow(p)
	return &row, nil
}

// List returns the public catalog
func (s *ProductService) List(ctx context.Context, filter catalog.ProductFilter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out, nil
}

// GetBySlug returns a single product for its detail page
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	p, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// SetSoldOut toggles availability
func (s *ProductService) SetSoldOut(ctx context.Context, id uuid.UUID, soldOut bool) (*PricingRow, error) {
	return s.update(ctx, id, func(p *catalog.Product) { p.SetSoldOut(soldOut) })
}

// SetSupplierProductID records (or clears with "") the supplier id used by supplier sync
func (s *ProductService) SetSupplierProductID(ctx context.Context, id uuid.UUID, supplierProductID string) (*PricingRow, error) {
	return s.update(ctx, id, func(p *catalog.Product) { p.MapToSupplier(supplierProductID) })
}

func (s *ProductService) update(ctx context.Context, id uuid.UUID, fn func(p *catalog.Product)) (*PricingRow, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(p)
	if err := s.productRepo.SaveDetails(ctx, p); err != nil {
		return nil, err
	}
	row := ToPricingRow(p)
	return &row, nil
}

func (s *ProductService) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 2; i < maxSlugAttempts+2; i++ {
		exists, err := s.productRepo.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", shared.ErrAlreadyExists.Withf("Could not find a free slug for %q", base)
}
