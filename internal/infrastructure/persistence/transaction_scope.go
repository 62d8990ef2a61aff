package persistence

import (
	"context"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/setting"
	"github.com/storefront/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Repositories handed to fn share the transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// SettingRepo returns the setting repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SettingRepo() setting.Repository {
	return NewGormSettingRepository(r.tx)
}

var _ appcatalog.TransactionScope = (*GormTransactionScope)(nil)
var _ appcatalog.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

// GormOrderTransactionScope implements the order TransactionScope. The
// repository handed to fn shares the transaction.
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope.
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(orders trade.OrderRepository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormOrderRepository(tx))
	})
}

var _ apptrade.TransactionScope = (*GormOrderTransactionScope)(nil)
