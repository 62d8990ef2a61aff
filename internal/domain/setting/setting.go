// Package setting holds the operator-managed key/value configuration stored in the
// database: the global markup and the supplier account credentials.
package setting

import (
	"context"
	"time"
)

// Known setting keys
const (
	KeyGlobalMarkup     = "global_markup_percentage"
	KeySupplierEmail    = "supplier_email"
	KeySupplierPassword = "supplier_password"
)

// PasswordMask is shown instead of stored secrets. Writing it back is a no-op.
const PasswordMask = "••••••••"

// AllowedKeys lists the keys operators may read and write
var AllowedKeys = []string{KeyGlobalMarkup, KeySupplierEmail, KeySupplierPassword}

// IsAllowedKey reports whether key is operator-editable
func IsAllowedKey(key string) bool {
	for _, k := range AllowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// IsSecretKey reports whether the value of key must be masked on read
func IsSecretKey(key string) bool {
	return key == KeySupplierPassword
}

// Setting is a single persisted key/value pair
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Repository persists settings
type Repository interface {
	// Get returns the setting or shared.ErrNotFound
	Get(ctx context.Context, key string) (*Setting, error)

	// GetForShare reads a setting holding a shared row lock until the transaction ends.
	// Missing keys return shared.ErrNotFound.
	GetForShare(ctx context.Context, key string) (*Setting, error)

	// GetMany returns the settings that exist among keys, keyed by name
	GetMany(ctx context.Context, keys []string) (map[string]string, error)

	// Upsert inserts or replaces a setting value
	Upsert(ctx context.Context, key, value string) error
}
