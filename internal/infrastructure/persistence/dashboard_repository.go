package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/report"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormDashboardRepository implements report.DashboardRepository using GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// CatalogCounts counts all products and the sold-out ones
func (r *GormDashboardRepository) CatalogCounts(ctx context.Context) (report.CatalogCounts, error) {
	var result struct {
		Products int64
		SoldOut  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select("COUNT(*) AS products, COALESCE(SUM(CASE WHEN sold_out THEN 1 ELSE 0 END), 0) AS sold_out").
		Scan(&result).Error
	if err != nil {
		return report.CatalogCounts{}, err
	}
	return report.CatalogCounts{Products: result.Products, SoldOut: result.SoldOut}, nil
}

// OrderTotalsByStatus groups orders by status with their summed totals
func (r *GormDashboardRepository) OrderTotalsByStatus(ctx context.Context) ([]report.OrderStatusTotal, error) {
	var rows []report.OrderStatusTotal
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	// sqlite sums decimals as floats
	for i := range rows {
		rows[i].Revenue = rows[i].Revenue.Round(2)
	}
	return rows, nil
}

// SyncStatusCounts groups orders by supplier sync status
func (r *GormDashboardRepository) SyncStatusCounts(ctx context.Context) ([]report.SyncStatusCount, error) {
	var rows []report.SyncStatusCount
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("supplier_sync_status AS status, COUNT(*) AS count").
		Group("supplier_sync_status").
		Order("supplier_sync_status").
		Scan(&rows).Error
	return rows, err
}

// TopProducts ranks products by units ordered across all orders
func (r *GormDashboardRepository) TopProducts(ctx context.Context, limit int) ([]report.ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []report.ProductSales
	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select(`
			oi.product_id AS product_id,
			p.name AS name,
			p.sell_price AS sell_price,
			SUM(oi.quantity) AS quantity,
			COALESCE(SUM(oi.quantity * oi.price), 0) AS revenue
		`).
		Joins("JOIN products p ON p.id = oi.product_id").
		Group("oi.product_id, p.name, p.sell_price").
		Order("quantity DESC").
		Order("p.name").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Revenue = rows[i].Revenue.Round(2)
	}
	return rows, nil
}

var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
