// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model converts with ToDomain and
// FromDomain.
package models

// All returns every model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&SettingModel{},
		&ProductModel{},
		&UserModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
