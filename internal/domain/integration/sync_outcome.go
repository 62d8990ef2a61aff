package integration

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// SyncItemResult is the outcome for one order line. Failures are data, not errors.
type SyncItemResult struct {
	ProductID         uuid.UUID
	Name              string
	SupplierProductID string
	Quantity          int
	OK                bool
	Message           string
	CartLine          *CartLine
}

// SyncOutcome aggregates one sync attempt. It is not persisted.
type SyncOutcome struct {
	OrderID       uuid.UUID
	OrderRef      string
	Status        trade.SupplierSyncStatus
	Results       []SyncItemResult
	SupplierTotal decimal.Decimal
	SyncedAt      time.Time
}

// NewSyncOutcome aggregates item results: every item ok gives synced, any
// failure gives partial. The supplier total sums the cart lines of ok items.
func NewSyncOutcome(orderID uuid.UUID, orderRef string, results []SyncItemResult, at time.Time) *SyncOutcome {
	status := trade.SupplierSyncSynced
	total := decimal.Zero
	for _, r := range results {
		if !r.OK {
			status = trade.SupplierSyncPartial
			continue
		}
		if r.CartLine != nil {
			total = total.Add(r.CartLine.LineTotal())
		}
	}
	return &SyncOutcome{
		OrderID:       orderID,
		OrderRef:      orderRef,
		Status:        status,
		Results:       results,
		SupplierTotal: total,
		SyncedAt:      at,
	}
}

// AllOK reports whether every item was accepted
func (o *SyncOutcome) AllOK() bool {
	return o.Status == trade.SupplierSyncSynced
}

// SucceededCount returns the number of accepted items
func (o *SyncOutcome) SucceededCount() int {
	n := 0
	for _, r := range o.Results {
		if r.OK {
			n++
		}
	}
	return n
}

// FailedCount returns the number of rejected items
func (o *SyncOutcome) FailedCount() int {
	return len(o.Results) - o.SucceededCount()
}

// Message is a one-line summary for the operator
func (o *SyncOutcome) Message() string {
	if o.AllOK() {
		return fmt.Sprintf("All %d items added to supplier cart", len(o.Results))
	}
	return fmt.Sprintf("%d of %d items failed. Check results.", o.FailedCount(), len(o.Results))
}

// ErrorSummary lists failed items as "name: message; ..."
func (o *SyncOutcome) ErrorSummary() string {
	var parts []string
	for _, r := range o.Results {
		if !r.OK {
			parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Message))
		}
	}
	return strings.Join(parts, "; ")
}
