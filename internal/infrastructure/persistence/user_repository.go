package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	if err := r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return identity.ErrEmailTaken
		}
		return err
	}
	return nil
}

// Delete deletes a user by ID. Their orders stay, detached from the account.
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

type memberStats struct {
	UserID          uuid.UUID
	OrderCount      int
	CompletedOrders int
	PendingOrders   int
	TotalSpent      decimal.Decimal
}

// ListMembers returns non-admin users with their order statistics, newest first
func (r *GormUserRepository) ListMembers(ctx context.Context) ([]identity.MemberSummary, error) {
	var users []models.UserModel
	if err := r.db.WithContext(ctx).
		Where("is_admin = ?", false).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []identity.MemberSummary{}, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	var stats []memberStats
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select(`user_id,
			COUNT(id) AS order_count,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed_orders,
			SUM(CASE WHEN status NOT IN ? THEN 1 ELSE 0 END) AS pending_orders,
			COALESCE(SUM(total), 0) AS total_spent`,
			trade.OrderStatusCompleted,
			[]trade.OrderStatus{trade.OrderStatusCompleted, trade.OrderStatusCancelled},
		).
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]memberStats, len(stats))
	for _, s := range stats {
		byUser[s.UserID] = s
	}

	out := make([]identity.MemberSummary, len(users))
	for i := range users {
		s := byUser[users[i].ID]
		out[i] = identity.MemberSummary{
			User:            *users[i].ToDomain(),
			OrderCount:      s.OrderCount,
			CompletedOrders: s.CompletedOrders,
			PendingOrders:   s.PendingOrders,
			TotalSpent:      s.TotalSpent.StringFixed(2),
		}
	}
	return out, nil
}

// Ensure GormUserRepository implements identity.UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
