// Package report assembles the admin dashboard from catalog, order and
// pricing aggregates.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/report"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

const (
	recentOrderLimit = 10
	topProductLimit  = 10
)

// GlobalMarkupReader returns the store-wide markup percentage
type GlobalMarkupReader interface {
	GetGlobalMarkup(ctx context.Context) (decimal.Decimal, error)
}

// DashboardService builds the admin dashboard
type DashboardService struct {
	repo    report.DashboardRepository
	orders  trade.OrderRepository
	pricing GlobalMarkupReader
	logger  *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	repo report.DashboardRepository,
	orders trade.OrderRepository,
	pricing GlobalMarkupReader,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, orders: orders, pricing: pricing, logger: logger}
}

// DashboardResponse is the admin overview of the store
type DashboardResponse struct {
	TotalProducts   int64                 `json:"total_products"`
	SoldOutProducts int64                 `json:"sold_out_products"`
	TotalOrders     int64                 `json:"total_orders"`
	TotalRevenue    decimal.Decimal       `json:"total_revenue"`
	PendingRevenue  decimal.Decimal       `json:"pending_revenue"`
	OrdersByStatus  []StatusTotalResponse `json:"orders_by_status"`
	RecentOrders    []RecentOrderResponse `json:"recent_orders"`
	SyncStats       []SyncStatResponse    `json:"sync_stats"`
	TopProducts     []TopProductResponse  `json:"top_products"`
	GlobalMarkup    decimal.Decimal       `json:"global_markup"`
}

// StatusTotalResponse is the order count and revenue of one status
type StatusTotalResponse struct {
	Status  string          `json:"status"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SyncStatResponse is the order count of one supplier sync status
type SyncStatResponse struct {
	SupplierSyncStatus string `json:"supplier_sync_status"`
	Count              int64  `json:"count"`
}

// RecentOrderResponse is a one-line order summary
type RecentOrderResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Ref                string          `json:"ref"`
	CustomerName       string          `json:"customer_name"`
	Total              decimal.Decimal `json:"total"`
	Status             string          `json:"status"`
	SupplierSyncStatus string          `json:"supplier_sync_status"`
	ItemsSummary       string          `json:"items_summary"`
	CreatedAt          time.Time       `json:"created_at"`
}

// TopProductResponse is a best-selling product
type TopProductResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	TotalQuantity int64           `json:"total_qty"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// Dashboard gathers counts, revenue, recent orders, sync backlog and best
// sellers. Revenue counts paid, processing, shipped and completed orders;
// pending revenue is what awaits payment.
func (s *DashboardService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	counts, err := s.repo.CatalogCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	totals, err := s.repo.OrderTotalsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("total orders by status: %w", err)
	}
	syncCounts, err := s.repo.SyncStatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count supplier sync statuses: %w", err)
	}
	top, err := s.repo.TopProducts(ctx, topProductLimit)
	if err != nil {
		return nil, fmt.Errorf("rank products: %w", err)
	}

	filter := trade.OrderFilter{Filter: shared.DefaultFilter()}
	filter.PageSize = recentOrderLimit
	recent, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load recent orders: %w", err)
	}

	markup, err := s.pricing.GetGlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("load global markup: %w", err)
	}

	resp := &DashboardResponse{
		TotalProducts:   counts.Products,
		SoldOutProducts: counts.SoldOut,
		TotalRevenue:    decimal.Zero,
		PendingRevenue:  decimal.Zero,
		OrdersByStatus:  make([]StatusTotalResponse, 0, len(totals)),
		RecentOrders:    make([]RecentOrderResponse, 0, len(recent)),
		SyncStats:       make([]SyncStatResponse, 0, len(syncCounts)),
		TopProducts:     make([]TopProductResponse, 0, len(top)),
		GlobalMarkup:    markup,
	}
	for _, t := range totals {
		resp.TotalOrders += t.Count
		switch {
		case t.Status.CountsAsRevenue():
			resp.TotalRevenue = resp.TotalRevenue.Add(t.Revenue)
		case t.Status == trade.OrderStatusAwaitingPayment:
			resp.PendingRevenue = resp.PendingRevenue.Add(t.Revenue)
		}
		resp.OrdersByStatus = append(resp.OrdersByStatus, StatusTotalResponse{
			Status:  t.Status.String(),
			Count:   t.Count,
			Revenue: t.Revenue,
		})
	}
	for _, c := range syncCounts {
		resp.SyncStats = append(resp.SyncStats, SyncStatResponse{SupplierSyncStatus: c.Status.String(), Count: c.Count})
	}
	for i := range recent {
		resp.RecentOrders = append(resp.RecentOrders, toRecentOrder(&recent[i]))
	}
	for _, p := range top {
		resp.TopProducts = append(resp.TopProducts, TopProductResponse{
			ProductID:     p.ProductID,
			Name:          p.Name,
			SellPrice:     p.SellPrice,
			TotalQuantity: p.Quantity,
			TotalRevenue:  p.Revenue,
		})
	}

	s.logger.Debug("dashboard built",
		zap.Int64("orders", resp.TotalOrders),
		zap.String("revenue", resp.TotalRevenue.String()),
	)
	return resp, nil
}

func toRecentOrder(o *trade.Order) RecentOrderResponse {
	parts := make([]string, len(o.Items))
	for i, it := range o.Items {
		parts[i] = fmt.Sprintf("%s x%d", it.ProductName, it.Quantity)
	}
	return RecentOrderResponse{
		ID:                 o.ID,
		Ref:                o.Ref,
		CustomerName:       o.Customer.Name,
		Total:              o.Total,
		Status:             o.Status.String(),
		SupplierSyncStatus: o.SupplierSyncStatus.String(),
		ItemsSummary:       strings.Join(parts, ", "),
		CreatedAt:          o.CreatedAt,
	}
}
