package trade

import (
	"context"

	"github.com/storefront/backend/internal/domain/trade"
)

// TransactionScope runs an order edit inside one database transaction so the
// row lock taken by FindByIDForUpdate is held until Save commits.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(orders trade.OrderRepository) error) error
}

// NoOpTransactionScope runs fn directly against the given repository.
// Useful for tests.
type NoOpTransactionScope struct {
	orders trade.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(orders trade.OrderRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orders: orders}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(orders trade.OrderRepository) error) error {
	return fn(s.orders)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
