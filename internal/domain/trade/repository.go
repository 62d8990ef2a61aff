package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderFilter narrows order listings. Results are newest first.
type OrderFilter struct {
	shared.Filter
	UserID       *uuid.UUID
	Status       OrderStatus
	SyncStatuses []SupplierSyncStatus
}

// OrderRepository persists orders together with their items
type OrderRepository interface {
	// FindByID loads an order and its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads an order and its items, holding a row lock on
	// the order until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByRef loads an order by its reference
	FindByRef(ctx context.Context, ref string) (*Order, error)

	// FindAll lists orders with items
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Create inserts a new order with the next sequential reference, assigned
	// inside the insert transaction. A reference collision with a concurrent
	// insert returns ErrOrderRefConflict.
	Create(ctx context.Context, order *Order) error

	// Save updates order fields and existing item quantities/prices. The supplier
	// sync columns are left alone; they change only through UpdateSupplierSync.
	Save(ctx context.Context, order *Order) error

	// UpdateSupplierSync persists only the supplier sync columns
	UpdateSupplierSync(ctx context.Context, id uuid.UUID, status SupplierSyncStatus, syncedAt *time.Time, errSummary string) error
}
