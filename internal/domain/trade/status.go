package trade

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatus is the business lifecycle of an order.
// Transitions are admin-driven and unconstrained.
type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "Awaiting Payment"
	OrderStatusQuoteSent       OrderStatus = "Quote Sent"
	OrderStatusPaid            OrderStatus = "Paid"
	OrderStatusProcessing      OrderStatus = "Processing"
	OrderStatusShipped         OrderStatus = "Shipped"
	OrderStatusCompleted       OrderStatus = "Completed"
	OrderStatusCancelled       OrderStatus = "Cancelled"
)

// statusAliases maps legacy spellings onto canonical statuses
var statusAliases = map[string]OrderStatus{
	"payment received": OrderStatusPaid,
}

// AllOrderStatuses lists the canonical statuses in lifecycle order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusAwaitingPayment,
		OrderStatusQuoteSent,
		OrderStatusPaid,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	for _, v := range AllOrderStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// CountsAsRevenue reports whether money for the order has been received
func (s OrderStatus) CountsAsRevenue() bool {
	switch s {
	case OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped, OrderStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus resolves a status name, case-insensitively, including legacy aliases
func ParseOrderStatus(s string) (OrderStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, v := range AllOrderStatuses() {
		if strings.ToLower(string(v)) == key {
			return v, nil
		}
	}
	if v, ok := statusAliases[key]; ok {
		return v, nil
	}
	return "", ErrInvalidOrderStatus.Withf("Invalid order status: %q", s)
}

// SupplierSyncStatus tracks procurement of an order at the supplier.
// It moves independently of OrderStatus.
type SupplierSyncStatus string

const (
	SupplierSyncPending SupplierSyncStatus = "pending"
	SupplierSyncSynced  SupplierSyncStatus = "synced"
	SupplierSyncPartial SupplierSyncStatus = "partial"
	SupplierSyncFailed  SupplierSyncStatus = "failed"
)

// IsValid checks if the status is a valid SupplierSyncStatus
func (s SupplierSyncStatus) IsValid() bool {
	switch s {
	case SupplierSyncPending, SupplierSyncSynced, SupplierSyncPartial, SupplierSyncFailed:
		return true
	}
	return false
}

// String returns the string representation of SupplierSyncStatus
func (s SupplierSyncStatus) String() string {
	return string(s)
}

// NeedsSync reports whether the order still awaits a supplier sync
func (s SupplierSyncStatus) NeedsSync() bool {
	return s == SupplierSyncPending || s == SupplierSyncFailed
}

// Order errors
var (
	ErrOrderNotFound         = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrInvalidOrderStatus    = shared.NewDomainError("INVALID_ORDER_STATUS", "Invalid order status")
	ErrInvalidSyncStatus     = shared.NewDomainError("INVALID_SYNC_STATUS", "Invalid supplier sync status")
	ErrInvalidShippingMethod = shared.NewDomainError("INVALID_SHIPPING_METHOD", "Invalid shipping method")
	ErrBelowMinimumOrder     = shared.NewDomainError("BELOW_MINIMUM_ORDER", "Minimum order is R200")
	ErrEmptyOrder            = shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	ErrInvalidQuantity       = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrInvalidPrice          = shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	ErrOrderItemNotFound     = shared.NewDomainError("ORDER_ITEM_NOT_FOUND", "Order item not found")
	ErrMissingCustomerName   = shared.NewDomainError("MISSING_CUSTOMER_NAME", "Customer name is required")
	ErrOrderRefConflict      = shared.NewDomainError("ORDER_REF_CONFLICT", "Order reference was taken by a concurrent checkout")
)
