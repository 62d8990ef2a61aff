package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/trade"
)

// CartItemResponse is the supplier's cart line after a successful mutation
type CartItemResponse struct {
	Price    decimal.Decimal `json:"cart_item_price"`
	Quantity int             `json:"cart_item_quantity"`
}

// SyncItemResponse is one line of a sync attempt
type SyncItemResponse struct {
	Name              string            `json:"name"`
	SupplierProductID string            `json:"supplier_product_id"`
	Quantity          int               `json:"quantity"`
	OK                bool              `json:"ok"`
	Message           string            `json:"msg"`
	CartItem          *CartItemResponse `json:"cart_item,omitempty"`
}

// SyncResponse is the aggregated result of a sync attempt
type SyncResponse struct {
	OK            bool               `json:"ok"`
	OrderID       uuid.UUID          `json:"order_id"`
	OrderRef      string             `json:"order_ref"`
	Status        string             `json:"status"`
	Message       string             `json:"message"`
	Results       []SyncItemResponse `json:"results"`
	SupplierTotal decimal.Decimal    `json:"supplier_total"`
	SyncedAt      time.Time          `json:"synced_at"`
}

// SyncOrderItem is an order line annotated with its supplier mapping
type SyncOrderItem struct {
	ProductID         uuid.UUID       `json:"product_id"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	BasePrice         decimal.Decimal `json:"base_price"`
	SupplierProductID *string         `json:"supplier_product_id"`
}

// SyncOrderResponse is an order awaiting supplier sync
type SyncOrderResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Ref                string          `json:"ref"`
	CustomerName       string          `json:"customer_name"`
	Total              decimal.Decimal `json:"total"`
	Status             string          `json:"status"`
	SupplierSyncStatus string          `json:"supplier_sync_status"`
	SupplierSyncedAt   *time.Time      `json:"supplier_synced_at,omitempty"`
	SupplierSyncError  string          `json:"supplier_sync_error,omitempty"`
	ReadyToSync        bool            `json:"ready_to_sync"`
	Items              []SyncOrderItem `json:"items"`
	CreatedAt          time.Time       `json:"created_at"`
}

// SyncStatusResponse reports a manual status change
type SyncStatusResponse struct {
	OrderID            uuid.UUID `json:"order_id"`
	SupplierSyncStatus string    `json:"supplier_sync_status"`
}

// ToSyncResponse converts a sync outcome
func ToSyncResponse(o *integration.SyncOutcome) SyncResponse {
	results := make([]SyncItemResponse, len(o.Results))
	for i, r := range o.Results {
		results[i] = SyncItemResponse{
			Name:              r.Name,
			SupplierProductID: r.SupplierProductID,
			Quantity:          r.Quantity,
			OK:                r.OK,
			Message:           r.Message,
		}
		if r.CartLine != nil {
			results[i].CartItem = &CartItemResponse{Price: r.CartLine.UnitPrice, Quantity: r.CartLine.Quantity}
		}
	}
	return SyncResponse{
		OK:            o.AllOK(),
		OrderID:       o.OrderID,
		OrderRef:      o.OrderRef,
		Status:        o.Status.String(),
		Message:       o.Message(),
		Results:       results,
		SupplierTotal: o.SupplierTotal,
		SyncedAt:      o.SyncedAt,
	}
}

func toSyncOrderResponse(o *trade.Order, products map[uuid.UUID]*catalog.Product) SyncOrderResponse {
	ready := len(o.Items) > 0
	items := make([]SyncOrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = SyncOrderItem{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
		p, ok := products[it.ProductID]
		if !ok || !p.HasSupplierMapping() {
			ready = false
			continue
		}
		items[i].BasePrice = p.BasePrice
		items[i].SupplierProductID = p.SupplierProductID
	}
	return SyncOrderResponse{
		ID:                 o.ID,
		Ref:                o.Ref,
		CustomerName:       o.Customer.Name,
		Total:              o.Total,
		Status:             o.Status.String(),
		SupplierSyncStatus: o.SupplierSyncStatus.String(),
		SupplierSyncedAt:   o.SupplierSyncedAt,
		SupplierSyncError:  o.SupplierSyncError,
		ReadyToSync:        ready,
		Items:              items,
		CreatedAt:          o.CreatedAt,
	}
}
