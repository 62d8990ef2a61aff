package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/setting"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements setting.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get returns a setting by key
func (r *GormSettingRepository) Get(ctx context.Context, key string) (*setting.Setting, error) {
	return r.get(r.db.WithContext(ctx), key)
}

// GetForShare reads a setting under a shared row lock
func (r *GormSettingRepository) GetForShare(ctx context.Context, key string) (*setting.Setting, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}), key)
}

func (r *GormSettingRepository) get(query *gorm.DB, key string) (*setting.Setting, error) {
	var model models.SettingModel
	if err := query.Where("key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.Withf("Setting %s not found", key)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetMany returns the settings that exist among keys
func (r *GormSettingRepository) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var rows []models.SettingModel
	if err := r.db.WithContext(ctx).Where("key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Upsert inserts or replaces a setting value
func (r *GormSettingRepository) Upsert(ctx context.Context, key, value string) error {
	model := models.SettingModel{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
}

// Ensure GormSettingRepository implements setting.Repository
var _ setting.Repository = (*GormSettingRepository)(nil)
