// Package report holds the read models behind the admin dashboard. They are
// aggregates computed by the database, never loaded entity by entity.
package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/trade"
)

// CatalogCounts summarizes the product catalog
type CatalogCounts struct {
	Products int64
	SoldOut  int64
}

// OrderStatusTotal is the order count and summed totals for one status
type OrderStatusTotal struct {
	Status  trade.OrderStatus
	Count   int64
	Revenue decimal.Decimal
}

// SyncStatusCount is the number of orders in one supplier sync status
type SyncStatusCount struct {
	Status trade.SupplierSyncStatus
	Count  int64
}

// ProductSales aggregates every order line of one product
type ProductSales struct {
	ProductID uuid.UUID
	Name      string
	SellPrice decimal.Decimal
	Quantity  int64
	Revenue   decimal.Decimal
}

// DashboardRepository runs the aggregate queries behind the admin dashboard
type DashboardRepository interface {
	// CatalogCounts counts all products and the sold-out ones
	CatalogCounts(ctx context.Context) (CatalogCounts, error)

	// OrderTotalsByStatus groups orders by status
	OrderTotalsByStatus(ctx context.Context) ([]OrderStatusTotal, error)

	// SyncStatusCounts groups orders by supplier sync status
	SyncStatusCounts(ctx context.Context) ([]SyncStatusCount, error)

	// TopProducts ranks catalog products by units ordered, most first.
	// Lines whose product was deleted are left out.
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
}
