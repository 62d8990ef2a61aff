package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	RefNumber           int                      `gorm:"not null;uniqueIndex"`
	Ref                 string                   `gorm:"type:varchar(20);not null;uniqueIndex"`
	UserID              *uuid.UUID               `gorm:"type:uuid;index"`
	CustomerName        string                   `gorm:"type:varchar(200);not null"`
	CustomerEmail       string                   `gorm:"type:varchar(200);not null;default:''"`
	CustomerPhone       string                   `gorm:"type:varchar(50);not null;default:''"`
	AddressStreet       string                   `gorm:"column:address_street;type:varchar(300);not null;default:''"`
	AddressSuburb       string                   `gorm:"column:address_suburb;type:varchar(100);not null;default:''"`
	AddressCity         string                   `gorm:"column:address_city;type:varchar(100);not null;default:''"`
	AddressProvince     string                   `gorm:"column:address_province;type:varchar(100);not null;default:''"`
	AddressPostalCode   string                   `gorm:"column:address_postal_code;type:varchar(20);not null;default:''"`
	ShippingMethod      trade.ShippingMethod     `gorm:"type:varchar(30);not null"`
	ShippingCost        decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal            decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	Total               decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	Status              trade.OrderStatus        `gorm:"type:varchar(30);not null;index"`
	SupplierSyncStatus  trade.SupplierSyncStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	SupplierSyncedAt    *time.Time
	SupplierSyncError   string           `gorm:"type:text;not null;default:''"`
	SpecialInstructions string           `gorm:"type:text;not null;default:''"`
	QuoteAction         string           `gorm:"type:varchar(30);not null;default:'create_new'"`
	AgreedTerms         bool             `gorm:"not null;default:false"`
	Items               []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		Ref:        m.Ref,
		RefNumber:  m.RefNumber,
		UserID:     m.UserID,
		Customer: trade.Customer{
			Name:  m.CustomerName,
			Email: m.CustomerEmail,
			Phone: m.CustomerPhone,
		},
		Address: trade.Address{
			Street:     m.AddressStreet,
			Suburb:     m.AddressSuburb,
			City:       m.AddressCity,
			Province:   m.AddressProvince,
			PostalCode: m.AddressPostalCode,
		},
		ShippingMethod:      m.ShippingMethod,
		ShippingCost:        m.ShippingCost,
		Subtotal:            m.Subtotal,
		Total:               m.Total,
		Status:              m.Status,
		SupplierSyncStatus:  m.SupplierSyncStatus,
		SupplierSyncedAt:    m.SupplierSyncedAt,
		SupplierSyncError:   m.SupplierSyncError,
		SpecialInstructions: m.SpecialInstructions,
		QuoteAction:         m.QuoteAction,
		AgreedTerms:         m.AgreedTerms,
		Items:               make([]trade.OrderItem, len(m.Items)),
	}
	for i, it := range m.Items {
		o.Items[i] = trade.OrderItem{
			ID:          it.ID,
			OrderID:     it.OrderID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.RefNumber = o.RefNumber
	m.Ref = o.Ref
	m.UserID = o.UserID
	m.CustomerName = o.Customer.Name
	m.CustomerEmail = o.Customer.Email
	m.CustomerPhone = o.Customer.Phone
	m.AddressStreet = o.Address.Street
	m.AddressSuburb = o.Address.Suburb
	m.AddressCity = o.Address.City
	m.AddressProvince = o.Address.Province
	m.AddressPostalCode = o.Address.PostalCode
	m.ShippingMethod = o.ShippingMethod
	m.ShippingCost = o.ShippingCost
	m.Subtotal = o.Subtotal
	m.Total = o.Total
	m.Status = o.Status
	m.SupplierSyncStatus = o.SupplierSyncStatus
	m.SupplierSyncedAt = o.SupplierSyncedAt
	m.SupplierSyncError = o.SupplierSyncError
	m.SpecialInstructions = o.SpecialInstructions
	m.QuoteAction = o.QuoteAction
	m.AgreedTerms = o.AgreedTerms
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, it := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:          it.ID,
			OrderID:     o.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
