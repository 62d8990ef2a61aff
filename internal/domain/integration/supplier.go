package integration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// Transport-level errors returned by SupplierCart adapters
var (
	ErrSupplierUnavailable     = errors.New("integration: supplier temporarily unavailable")
	ErrSupplierRequestFailed   = errors.New("integration: supplier request failed")
	ErrSupplierInvalidResponse = errors.New("integration: invalid supplier response")
	ErrRemoteTimeout           = errors.New("integration: supplier request timed out")
	ErrLockNotObtained         = errors.New("integration: sync lock not obtained")
	ErrLockLost                = errors.New("integration: sync lock expired before refresh")
)

// Errors surfaced to callers of a sync attempt
var (
	ErrMissingSupplierMapping = shared.NewDomainError("MISSING_SUPPLIER_MAPPING", "Missing supplier IDs")
	ErrSupplierAuthFailed     = shared.NewDomainError("SUPPLIER_AUTH_FAILED", "Could not login to supplier. Check credentials in Settings.")
	ErrSyncInProgress         = shared.NewDomainError("SYNC_IN_PROGRESS", "A supplier sync for this order is already running")
	ErrOrderHasNoItems        = shared.NewDomainError("ORDER_HAS_NO_ITEMS", "Order has no items to sync")
)

// MissingSupplierMappingError names every product that lacks a supplier id.
// It matches ErrMissingSupplierMapping with errors.Is.
type MissingSupplierMappingError struct {
	ProductNames []string
}

// NewMissingSupplierMappingError creates the error for the given product names
func NewMissingSupplierMappingError(names []string) *MissingSupplierMappingError {
	return &MissingSupplierMappingError{ProductNames: names}
}

func (e *MissingSupplierMappingError) Error() string {
	return "Missing supplier IDs for: " + strings.Join(e.ProductNames, ", ")
}

// Unwrap exposes a DomainError carrying the detailed message
func (e *MissingSupplierMappingError) Unwrap() error {
	return shared.NewDomainError(ErrMissingSupplierMapping.Code, e.Error())
}

// Is matches the ErrMissingSupplierMapping sentinel
func (e *MissingSupplierMappingError) Is(target error) bool {
	return target == ErrMissingSupplierMapping
}

// ---------------------------------------------------------------------------
// Supplier cart port
// ---------------------------------------------------------------------------

// SupplierCredentials is the operator's account at the supplier
type SupplierCredentials struct {
	Email    string
	Password string
}

// IsComplete reports whether both fields are set
func (c SupplierCredentials) IsComplete() bool {
	return strings.TrimSpace(c.Email) != "" && c.Password != ""
}

// SupplierSession is an authenticated session at the supplier
type SupplierSession struct {
	Cookie    string
	CreatedAt time.Time
}

// CartLine is the supplier's view of a cart line after a mutation
type CartLine struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns UnitPrice * Quantity. A missing quantity counts as one.
func (l CartLine) LineTotal() decimal.Decimal {
	qty := l.Quantity
	if qty <= 0 {
		qty = 1
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// CartMutationResult is the supplier's answer to a set-quantity call
type CartMutationResult struct {
	OK      bool
	Message string
	Line    *CartLine
}

// SupplierCart is the port for the supplier's session-scoped cart.
// Calls within one session must be made sequentially.
type SupplierCart interface {
	// Login authenticates and returns a session.
	// Rejected credentials return ErrSupplierAuthFailed.
	Login(ctx context.Context, creds SupplierCredentials) (*SupplierSession, error)

	// SetCartQuantity sets the quantity of a supplier product in the session's cart.
	// The supplier overwrites any previous quantity, so resubmission is safe.
	SetCartQuantity(ctx context.Context, session *SupplierSession, supplierProductID string, quantity int) (*CartMutationResult, error)
}

// CredentialsProvider returns the stored supplier account
type CredentialsProvider interface {
	SupplierCredentials(ctx context.Context) (SupplierCredentials, error)
}

// SyncLocker serializes sync attempts on the same key
type SyncLocker interface {
	// Acquire obtains the lock or returns ErrLockNotObtained
	Acquire(ctx context.Context, key string) (Lease, error)
}

// Lease is a held SyncLocker lock. It expires after the locker's ttl unless
// refreshed.
type Lease interface {
	// Refresh restarts the ttl, or returns ErrLockLost once it has expired
	Refresh(ctx context.Context) error
	// Release frees the lock. Releasing an expired lease is not an error.
	Release(ctx context.Context) error
}
