package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("product_name ASC")
	})
}

// FindByID loads an order and its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.firstByID(r.withItems(ctx), id)
}

// FindByIDForUpdate loads an order holding a row lock until the transaction
// ends. Items are preloaded by a separate, unlocked query.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.firstByID(r.withItems(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) firstByID(query *gorm.DB, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := query.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trade.ErrOrderNotFound.Withf("Order %s not found", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRef loads an order by its reference
func (r *GormOrderRepository) FindByRef(ctx context.Context, ref string) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.withItems(ctx).Where("ref = ?", ref).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trade.ErrOrderNotFound.Withf("Order %s not found", ref)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders with items, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, error) {
	query := r.withItems(ctx).Model(&models.OrderModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if len(filter.SyncStatuses) > 0 {
		query = query.Where("supplier_sync_status IN ?", filter.SyncStatuses)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("ref LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?", like, like, like)
	}

	var rows []models.OrderModel
	err := query.
		Order("created_at DESC").Order("ref_number DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Create assigns the next reference and inserts the order with its items in one transaction
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&models.OrderModel{}).
			Select("COALESCE(MAX(ref_number), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("read last order ref: %w", err)
		}
		order.AssignRef(last + 1)
		return tx.Create(models.OrderModelFromDomain(order)).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return trade.ErrOrderRefConflict
	}
	return err
}

// Save updates order fields and item quantities/prices. Reference and supplier
// sync columns are not written.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	m := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{
				"user_id":              m.UserID,
				"customer_name":        m.CustomerName,
				"customer_email":       m.CustomerEmail,
				"customer_phone":       m.CustomerPhone,
				"address_street":       m.AddressStreet,
				"address_suburb":       m.AddressSuburb,
				"address_city":         m.AddressCity,
				"address_province":     m.AddressProvince,
				"address_postal_code":  m.AddressPostalCode,
				"shipping_method":      m.ShippingMethod,
				"shipping_cost":        m.ShippingCost,
				"subtotal":             m.Subtotal,
				"total":                m.Total,
				"status":               m.Status,
				"special_instructions": m.SpecialInstructions,
				"quote_action":         m.QuoteAction,
				"agreed_terms":         m.AgreedTerms,
				"updated_at":           order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return trade.ErrOrderNotFound.Withf("Order %s not found", order.ID)
		}

		for _, it := range m.Items {
			err := tx.Model(&models.OrderItemModel{}).
				Where("id = ? AND order_id = ?", it.ID, order.ID).
				Updates(map[string]any{"quantity": it.Quantity, "price": it.Price}).Error
			if err != nil {
				return fmt.Errorf("update order item %s: %w", it.ID, err)
			}
		}
		return nil
	})
}

// UpdateSupplierSync persists only the supplier sync columns
func (r *GormOrderRepository) UpdateSupplierSync(
	ctx context.Context,
	id uuid.UUID,
	status trade.SupplierSyncStatus,
	syncedAt *time.Time,
	errSummary string,
) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"supplier_sync_status": status,
			"supplier_synced_at":   syncedAt,
			"supplier_sync_error":  errSummary,
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return trade.ErrOrderNotFound.Withf("Order %s not found", id)
	}
	return nil
}

// Ensure GormOrderRepository implements trade.OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
