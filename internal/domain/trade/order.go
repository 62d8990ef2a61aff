package trade

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// RefPrefix prefixes every human-facing order reference
const RefPrefix = "AP"

// FormatRef renders a sequence number as an order reference, e.g. AP-0042
func FormatRef(n int) string {
	return fmt.Sprintf("%s-%04d", RefPrefix, n)
}

// ParseRef extracts the sequence number from an order reference
func ParseRef(ref string) (int, error) {
	num, ok := strings.CutPrefix(ref, RefPrefix+"-")
	if !ok {
		return 0, fmt.Errorf("order ref %q has no %s- prefix", ref, RefPrefix)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("order ref %q has no valid sequence number", ref)
	}
	return n, nil
}

// Customer holds the contact details captured at checkout
type Customer struct {
	Name  string
	Email string
	Phone string
}

// Address is the delivery address
type Address struct {
	Street     string
	Suburb     string
	City       string
	Province   string
	PostalCode string
}

// OrderItem is a line of an order. Price is snapshotted when the order is placed.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// LineTotal returns Quantity * Price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderLine is a request to add a product to a new order
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// ItemEdit is an admin correction to an existing line
type ItemEdit struct {
	ItemID   uuid.UUID
	Quantity int
	Price    decimal.Decimal
}

// Order is the aggregate root of the order ledger
type Order struct {
	shared.BaseEntity
	Ref                 string
	RefNumber           int
	UserID              *uuid.UUID
	Customer            Customer
	Address             Address
	ShippingMethod      ShippingMethod
	ShippingCost        decimal.Decimal
	Subtotal            decimal.Decimal
	Total               decimal.Decimal
	Status              OrderStatus
	SupplierSyncStatus  SupplierSyncStatus
	SupplierSyncedAt    *time.Time
	SupplierSyncError   string
	SpecialInstructions string
	QuoteAction         string
	AgreedTerms         bool
	Items               []OrderItem
}

// NewOrder builds an order from priced lines, applying the minimum order and shipping rules.
// The reference is assigned when the order is persisted.
func NewOrder(customer Customer, address Address, method ShippingMethod, lines []OrderLine) (*Order, error) {
	if strings.TrimSpace(customer.Name) == "" {
		return nil, ErrMissingCustomerName
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if !method.IsValid() {
		return nil, ErrInvalidShippingMethod.Withf("Invalid shipping method: %q", string(method))
	}

	o := &Order{
		BaseEntity:         shared.NewBaseEntity(),
		Customer:           customer,
		Address:            address,
		ShippingMethod:     method,
		Status:             OrderStatusAwaitingPayment,
		SupplierSyncStatus: SupplierSyncPending,
		QuoteAction:        "create_new",
	}

	for _, l := range lines {
		if err := validateLine(l.Quantity, l.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, OrderItem{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       l.Price,
		})
	}

	o.Subtotal = o.itemsSubtotal()
	if o.Subtotal.LessThan(MinimumOrderSubtotal) {
		return nil, ErrBelowMinimumOrder
	}

	shipping, err := CalcShipping(o.Subtotal, method)
	if err != nil {
		return nil, err
	}
	o.ShippingCost = shipping
	o.Total = o.Subtotal.Add(shipping)

	return o, nil
}

func validateLine(quantity int, price decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// AssignRef sets the sequential reference
func (o *Order) AssignRef(n int) {
	o.RefNumber = n
	o.Ref = FormatRef(n)
}

// UpdateStatus moves the order to any valid status
func (o *Order) UpdateStatus(status OrderStatus) error {
	if !status.IsValid() {
		return ErrInvalidOrderStatus.Withf("Invalid order status: %q", string(status))
	}
	o.Status = status
	o.Touch()
	return nil
}

// UpdateDetails replaces the customer and delivery details
func (o *Order) UpdateDetails(customer Customer, address Address, method ShippingMethod, instructions string) error {
	if strings.TrimSpace(customer.Name) == "" {
		return ErrMissingCustomerName
	}
	if !method.IsValid() {
		return ErrInvalidShippingMethod.Withf("Invalid shipping method: %q", string(method))
	}
	o.Customer = customer
	o.Address = address
	o.ShippingMethod = method
	o.SpecialInstructions = instructions
	o.Touch()
	return nil
}

// UpdateItems applies admin edits to quantities and prices and recalculates totals.
// A nil shippingCost keeps the current charge.
func (o *Order) UpdateItems(edits []ItemEdit, shippingCost *decimal.Decimal) error {
	for _, e := range edits {
		if err := validateLine(e.Quantity, e.Price); err != nil {
			return err
		}
		if o.item(e.ItemID) == nil {
			return ErrOrderItemNotFound.Withf("Order item %s not found", e.ItemID)
		}
	}
	if shippingCost != nil && shippingCost.IsNegative() {
		return ErrInvalidPrice
	}

	for _, e := range edits {
		it := o.item(e.ItemID)
		it.Quantity = e.Quantity
		it.Price = e.Price
	}
	if shippingCost != nil {
		o.ShippingCost = *shippingCost
	}
	o.Subtotal = o.itemsSubtotal()
	o.Total = o.Subtotal.Add(o.ShippingCost)
	o.Touch()
	return nil
}

// RecordSupplierSync stores the outcome of an automated supplier sync
func (o *Order) RecordSupplierSync(status SupplierSyncStatus, errSummary string, at time.Time) error {
	if !status.IsValid() {
		return ErrInvalidSyncStatus
	}
	o.SupplierSyncStatus = status
	o.SupplierSyncError = errSummary
	o.SupplierSyncedAt = &at
	o.Touch()
	return nil
}

// SetSupplierSyncStatus is the operator override of the sync status
func (o *Order) SetSupplierSyncStatus(status SupplierSyncStatus) error {
	if !status.IsValid() {
		return ErrInvalidSyncStatus
	}
	o.SupplierSyncStatus = status
	switch status {
	case SupplierSyncPending:
		o.SupplierSyncError = ""
	case SupplierSyncSynced:
		now := time.Now()
		o.SupplierSyncedAt = &now
		o.SupplierSyncError = ""
	}
	o.Touch()
	return nil
}

// ItemCount returns the number of lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// ProductIDs returns the distinct products referenced by the order's lines
func (o *Order) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, it := range o.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (o *Order) item(id uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

func (o *Order) itemsSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}
