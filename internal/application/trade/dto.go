package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// CheckoutItemRequest is one cart line submitted at checkout
type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
}

// CustomerRequest holds contact details
type CustomerRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	Phone        string `json:"phone" binding:"max=50"`
	Instructions string `json:"instructions" binding:"max=2000"`
}

// AddressRequest holds the delivery address
type AddressRequest struct {
	Street     string `json:"street" binding:"max=200"`
	Suburb     string `json:"suburb" binding:"max=100"`
	City       string `json:"city" binding:"max=100"`
	Province   string `json:"province" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
}

// CheckoutRequest places an order
type CheckoutRequest struct {
	Items          []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	Customer       CustomerRequest       `json:"customer" binding:"required"`
	Address        AddressRequest        `json:"address"`
	ShippingMethod string                `json:"shipping_method" binding:"required"`
	QuoteAction    string                `json:"quote_action" binding:"omitempty,oneof=create_new add_to_existing"`
	AgreedTerms    bool                  `json:"agreed_terms"`
}

// CheckoutResult is returned after a successful checkout
type CheckoutResult struct {
	OrderID      uuid.UUID       `json:"order_id"`
	Ref          string          `json:"order_ref"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
}

// UpdateStatusRequest changes the business status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateDetailsRequest replaces customer and address details
type UpdateDetailsRequest struct {
	Customer       CustomerRequest `json:"customer" binding:"required"`
	Address        AddressRequest  `json:"address"`
	ShippingMethod string          `json:"shipping_method" binding:"required"`
}

// ItemEditRequest corrects one line
type ItemEditRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

// UpdateItemsRequest edits lines and optionally the shipping charge
type UpdateItemsRequest struct {
	Items        []ItemEditRequest `json:"items" binding:"required,min=1,dive"`
	ShippingCost *decimal.Decimal  `json:"shipping_cost"`
}

// OrderItemResponse is an order line
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse is the admin view of an order
type OrderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Ref                 string              `json:"ref"`
	UserID              *uuid.UUID          `json:"user_id,omitempty"`
	CustomerName        string              `json:"customer_name"`
	CustomerEmail       string              `json:"customer_email"`
	CustomerPhone       string              `json:"customer_phone"`
	Address             AddressRequest      `json:"address"`
	ShippingMethod      string              `json:"shipping_method"`
	ShippingCost        decimal.Decimal     `json:"shipping_cost"`
	Subtotal            decimal.Decimal     `json:"subtotal"`
	Total               decimal.Decimal     `json:"total"`
	Status              string              `json:"status"`
	SupplierSyncStatus  string              `json:"supplier_sync_status"`
	SupplierSyncedAt    *time.Time          `json:"supplier_synced_at,omitempty"`
	SupplierSyncError   string              `json:"supplier_sync_error,omitempty"`
	SpecialInstructions string              `json:"special_instructions"`
	QuoteAction         string              `json:"quote_action"`
	AgreedTerms         bool                `json:"agreed_terms"`
	Items               []OrderItemResponse `json:"items"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			Price:     it.Price,
			LineTotal: it.LineTotal(),
		}
	}
	return OrderResponse{
		ID:            o.ID,
		Ref:           o.Ref,
		UserID:        o.UserID,
		CustomerName:  o.Customer.Name,
		CustomerEmail: o.Customer.Email,
		CustomerPhone: o.Customer.Phone,
		Address: AddressRequest{
			Street:     o.Address.Street,
			Suburb:     o.Address.Suburb,
			City:       o.Address.City,
			Province:   o.Address.Province,
			PostalCode: o.Address.PostalCode,
		},
		ShippingMethod:      o.ShippingMethod.String(),
		ShippingCost:        o.ShippingCost,
		Subtotal:            o.Subtotal,
		Total:               o.Total,
		Status:              o.Status.String(),
		SupplierSyncStatus:  o.SupplierSyncStatus.String(),
		SupplierSyncedAt:    o.SupplierSyncedAt,
		SupplierSyncError:   o.SupplierSyncError,
		SpecialInstructions: o.SpecialInstructions,
		QuoteAction:         o.QuoteAction,
		AgreedTerms:         o.AgreedTerms,
		Items:               items,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func (r CustomerRequest) toDomain() trade.Customer {
	return trade.Customer{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

func (r AddressRequest) toDomain() trade.Address {
	return trade.Address{
		Street:     r.Street,
		Suburb:     r.Suburb,
		City:       r.City,
		Province:   r.Province,
		PostalCode: r.PostalCode,
	}
}
