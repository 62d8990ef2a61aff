package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/setting"
)

// TransactionScope provides transactional access to the pricing repositories.
// Every pricing write runs inside one scope so that the global markup and the
// sell prices derived from it commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories share the same underlying transaction
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	SettingRepo() setting.Repository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for tests.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	settingRepo setting.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(productRepo catalog.ProductRepository, settingRepo setting.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{productRepo: productRepo, settingRepo: settingRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// SettingRepo returns the setting repository
func (s *NoOpTransactionScope) SettingRepo() setting.Repository {
	return s.settingRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
