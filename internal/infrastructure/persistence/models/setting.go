package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/setting"
)

// SettingModel is a key/value row of the settings table
type SettingModel struct {
	Key       string    `gorm:"type:varchar(100);primaryKey"`
	Value     string    `gorm:"type:text;not null;default:''"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting
func (m *SettingModel) ToDomain() *setting.Setting {
	return &setting.Setting{Key: m.Key, Value: m.Value, UpdatedAt: m.UpdatedAt}
}
