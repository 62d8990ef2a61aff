package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

const maxRefAttempts = 3

// Checkout errors
var (
	ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")
	ErrProductSoldOut     = shared.NewDomainError("PRODUCT_SOLD_OUT", "Product is sold out")
)

// OrderService manages the order ledger
type OrderService struct {
	txScope     TransactionScope
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope TransactionScope,
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{txScope: txScope, orderRepo: orderRepo, productRepo: productRepo, logger: logger}
}

// Checkout places an order. Prices are taken from the catalog, never from the
// client, and snapshotted onto the order lines.
func (s *OrderService) Checkout(ctx context.Context, userID *uuid.UUID, req CheckoutRequest) (*CheckoutResult, error) {
	lines, err := s.priceLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(req.Customer.toDomain(), req.Address.toDomain(), trade.ShippingMethod(req.ShippingMethod), lines)
	if err != nil {
		return nil, err
	}
	order.UserID = userID
	order.SpecialInstructions = req.Customer.Instructions
	order.AgreedTerms = req.AgreedTerms
	if req.QuoteAction != "" {
		order.QuoteAction = req.QuoteAction
	}

	for attempt := 1; ; attempt++ {
		err = s.orderRepo.Create(ctx, order)
		if err == nil || !errors.Is(err, trade.ErrOrderRefConflict) || attempt >= maxRefAttempts {
			break
		}
		s.logger.Warn("order ref collision, retrying", zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("ref", order.Ref),
		zap.String("total", order.Total.String()),
	)
	return &CheckoutResult{
		OrderID:      order.ID,
		Ref:          order.Ref,
		Subtotal:     order.Subtotal,
		ShippingCost: order.ShippingCost,
		Total:        order.Total,
	}, nil
}

func (s *OrderService) priceLines(ctx context.Context, items []CheckoutItemRequest) ([]trade.OrderLine, error) {
	if len(items) == 0 {
		return nil, trade.ErrEmptyOrder
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]trade.OrderLine, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok || !p.SellPrice.IsPositive() {
			return nil, ErrProductUnavailable.Withf("Product %s is not available", it.ProductID)
		}
		if p.SoldOut {
			return nil, ErrProductSoldOut.Withf("%s is sold out", p.Name)
		}
		lines = append(lines, trade.OrderLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			Price:       p.SellPrice,
		})
	}
	return lines, nil
}

// List returns orders newest first
func (s *OrderService) List(ctx context.Context, filter trade.OrderFilter) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, nil
}

// ListForUser returns a member's own orders
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	return s.List(ctx, trade.OrderFilter{Filter: shared.DefaultFilter(), UserID: &userID})
}

// Get returns a single order
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// UpdateStatus moves an order to any status. Supplier sync status is untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OrderResponse, error) {
	parsed, err := trade.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "status", func(o *trade.Order) error {
		return o.UpdateStatus(parsed)
	})
}

// UpdateDetails replaces customer and address details
func (s *OrderService) UpdateDetails(ctx context.Context, id uuid.UUID, req UpdateDetailsRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, "details", func(o *trade.Order) error {
		return o.UpdateDetails(req.Customer.toDomain(), req.Address.toDomain(), trade.ShippingMethod(req.ShippingMethod), req.Customer.Instructions)
	})
}

// UpdateItems edits line quantities and prices and recalculates totals
func (s *OrderService) UpdateItems(ctx context.Context, id uuid.UUID, req UpdateItemsRequest) (*OrderResponse, error) {
	edits := make([]trade.ItemEdit, len(req.Items))
	for i, it := range req.Items {
		edits[i] = trade.ItemEdit{ItemID: it.ItemID, Quantity: it.Quantity, Price: it.Price}
	}
	return s.mutate(ctx, id, "items", func(o *trade.Order) error {
		return o.UpdateItems(edits, req.ShippingCost)
	})
}

// ShippingOptions lists the available shipping methods
func (s *OrderService) ShippingOptions() []trade.ShippingOption {
	return trade.ShippingOptions()
}

// mutate applies fn to the locked order row and saves it in the same
// transaction, so concurrent admin edits serialize instead of overwriting
// each other
func (s *OrderService) mutate(ctx context.Context, id uuid.UUID, what string, fn func(o *trade.Order) error) (*OrderResponse, error) {
	var o *trade.Order
	err := s.txScope.Execute(ctx, func(orders trade.OrderRepository) error {
		locked, err := orders.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(locked); err != nil {
			return err
		}
		if err := orders.Save(ctx, locked); err != nil {
			return err
		}
		o = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("order updated", zap.String("order_id", id.String()), zap.String("ref", o.Ref), zap.String("change", what))
	resp := ToOrderResponse(o)
	return &resp, nil
}
