// Package setting exposes operator settings with secrets masked on read.
package setting

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/setting"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrUnknownSettingKey is returned when writing a key outside setting.AllowedKeys
var ErrUnknownSettingKey = shared.NewDomainError("UNKNOWN_SETTING", "Unknown setting")

// GlobalMarkupSetter applies a new global markup with repricing
type GlobalMarkupSetter interface {
	SetGlobalMarkup(ctx context.Context, percent decimal.Decimal) (*appcatalog.GlobalMarkupResult, error)
}

// UpdateSettingsResult reports what an update wrote
type UpdateSettingsResult struct {
	Updated  []string                       `json:"updated"`
	Repriced *appcatalog.GlobalMarkupResult `json:"repriced,omitempty"`
}

// SettingsService reads and writes operator settings
type SettingsService struct {
	repo    setting.Repository
	pricing GlobalMarkupSetter
	logger  *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo setting.Repository, pricing GlobalMarkupSetter, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, pricing: pricing, logger: logger}
}

var _ integration.CredentialsProvider = (*SettingsService)(nil)

// GetAll returns every allowed setting. Secrets that are set read back as the mask.
func (s *SettingsService) GetAll(ctx context.Context) (map[string]string, error) {
	values, err := s.repo.GetMany(ctx, setting.AllowedKeys)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(setting.AllowedKeys))
	for _, key := range setting.AllowedKeys {
		v := values[key]
		if setting.IsSecretKey(key) && v != "" {
			v = setting.PasswordMask
		}
		out[key] = v
	}
	if out[setting.KeyGlobalMarkup] == "" {
		out[setting.KeyGlobalMarkup] = catalog.DefaultGlobalMarkup.String()
	}
	return out, nil
}

// Update writes the given settings. Unknown keys are rejected before anything
// is written. A secret equal to the mask is left unchanged. The global markup
// goes through the pricing service so dependent sell prices follow it.
func (s *SettingsService) Update(ctx context.Context, values map[string]string) (*UpdateSettingsResult, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		if !setting.IsAllowedKey(key) {
			return nil, ErrUnknownSettingKey.Withf("Unknown setting: %s", key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var markup *decimal.Decimal
	if raw, ok := values[setting.KeyGlobalMarkup]; ok {
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, catalog.ErrInvalidMarkup
		}
		if err := catalog.ValidateMarkup(d); err != nil {
			return nil, err
		}
		markup = &d
	}

	result := &UpdateSettingsResult{Updated: []string{}}
	for _, key := range keys {
		if key == setting.KeyGlobalMarkup {
			continue
		}
		value := strings.TrimSpace(values[key])
		if setting.IsSecretKey(key) {
			value = values[key]
			if value == setting.PasswordMask {
				continue
			}
		}
		if err := s.repo.Upsert(ctx, key, value); err != nil {
			return nil, fmt.Errorf("save setting %s: %w", key, err)
		}
		result.Updated = append(result.Updated, key)
	}

	if markup != nil {
		repriced, err := s.pricing.SetGlobalMarkup(ctx, *markup)
		if err != nil {
			return nil, err
		}
		result.Repriced = repriced
		result.Updated = append(result.Updated, setting.KeyGlobalMarkup)
	}

	s.logger.Info("settings updated", zap.Strings("keys", result.Updated))
	return result, nil
}

// SupplierCredentials returns the stored supplier login
func (s *SettingsService) SupplierCredentials(ctx context.Context) (integration.SupplierCredentials, error) {
	values, err := s.repo.GetMany(ctx, []string{setting.KeySupplierEmail, setting.KeySupplierPassword})
	if err != nil {
		return integration.SupplierCredentials{}, err
	}
	return integration.SupplierCredentials{
		Email:    strings.TrimSpace(values[setting.KeySupplierEmail]),
		Password: values[setting.KeySupplierPassword],
	}, nil
}
