package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Slug              string           `gorm:"type:varchar(220);not null;uniqueIndex"`
	Name              string           `gorm:"type:varchar(200);not null"`
	Category          string           `gorm:"type:varchar(100);not null;default:'';index"`
	Description       string           `gorm:"type:text;not null;default:''"`
	Image             string           `gorm:"type:varchar(500);not null;default:''"`
	BasePrice         decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	SellPrice         decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	PriceOverride     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MarkupOverride    *decimal.Decimal `gorm:"type:decimal(6,2)"`
	SupplierProductID *string          `gorm:"type:varchar(100)"`
	SoldOut           bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:        m.BaseModel.ToDomain(),
		Slug:              m.Slug,
		Name:              m.Name,
		Category:          m.Category,
		Description:       m.Description,
		Image:             m.Image,
		BasePrice:         m.BasePrice,
		SellPrice:         m.SellPrice,
		PriceOverride:     m.PriceOverride,
		MarkupOverride:    m.MarkupOverride,
		SupplierProductID: m.SupplierProductID,
		SoldOut:           m.SoldOut,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Slug = p.Slug
	m.Name = p.Name
	m.Category = p.Category
	m.Description = p.Description
	m.Image = p.Image
	m.BasePrice = p.BasePrice
	m.SellPrice = p.SellPrice
	m.PriceOverride = p.PriceOverride
	m.MarkupOverride = p.MarkupOverride
	m.SupplierProductID = p.SupplierProductID
	m.SoldOut = p.SoldOut
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
