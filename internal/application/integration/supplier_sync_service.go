package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// SyncRecorder observes sync attempts
type SyncRecorder interface {
	RecordSupplierSync(ctx context.Context, status string, succeeded, failed int, elapsed time.Duration)
}

type noopSyncRecorder struct{}

func (noopSyncRecorder) RecordSupplierSync(context.Context, string, int, int, time.Duration) {}

// SupplierSyncConfig bounds the remote calls of one sync attempt
type SupplierSyncConfig struct {
	LoginTimeout time.Duration
	ItemTimeout  time.Duration
}

// DefaultSupplierSyncConfig returns default timeouts
func DefaultSupplierSyncConfig() SupplierSyncConfig {
	return SupplierSyncConfig{
		LoginTimeout: 20 * time.Second,
		ItemTimeout:  15 * time.Second,
	}
}

// SupplierSyncService mirrors orders into the supplier's cart
type SupplierSyncService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	cart        integration.SupplierCart
	credentials integration.CredentialsProvider
	locker      integration.SyncLocker
	recorder    SyncRecorder
	config      SupplierSyncConfig
	logger      *zap.Logger
	now         func() time.Time
}

// SupplierSyncOption configures a SupplierSyncService
type SupplierSyncOption func(*SupplierSyncService)

// WithSyncRecorder reports sync attempts to r
func WithSyncRecorder(r SyncRecorder) SupplierSyncOption {
	return func(s *SupplierSyncService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithSupplierSyncConfig overrides the default timeouts
func WithSupplierSyncConfig(cfg SupplierSyncConfig) SupplierSyncOption {
	return func(s *SupplierSyncService) {
		if cfg.LoginTimeout > 0 {
			s.config.LoginTimeout = cfg.LoginTimeout
		}
		if cfg.ItemTimeout > 0 {
			s.config.ItemTimeout = cfg.ItemTimeout
		}
	}
}

// NewSupplierSyncService creates a new SupplierSyncService
func NewSupplierSyncService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	cart integration.SupplierCart,
	credentials integration.CredentialsProvider,
	locker integration.SyncLocker,
	logger *zap.Logger,
	opts ...SupplierSyncOption,
) *SupplierSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SupplierSyncService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cart:        cart,
		credentials: credentials,
		locker:      locker,
		recorder:    noopSyncRecorder{},
		config:      DefaultSupplierSyncConfig(),
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// syncItem is an order line resolved against the catalog
type syncItem struct {
	productID         uuid.UUID
	name              string
	supplierProductID string
	quantity          int
}

// SyncToSupplier submits every line of the order to the supplier's cart.
//
// A missing supplier mapping or a failed login aborts before any cart call and
// leaves the order's sync status unchanged. Once logged in, every item is
// attempted in order and failures are collected in the outcome. The resulting
// status (synced or partial) is persisted before returning.
func (s *SupplierSyncService) SyncToSupplier(ctx context.Context, orderID uuid.UUID) (*SyncResponse, error) {
	lease, release, err := s.acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	started := s.now()
	log := s.logger.With(zap.String("order_id", orderID.String()))

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("ref", order.Ref))

	items, err := s.resolveItems(ctx, order)
	if err != nil {
		log.Warn("supplier sync rejected", zap.Error(err))
		return nil, err
	}

	session, err := s.login(ctx)
	if err != nil {
		log.Warn("supplier login failed", zap.Error(err))
		return nil, err
	}

	results := make([]integration.SyncItemResult, 0, len(items))
	for i, it := range items {
		results = append(results, s.submitItem(ctx, session, it))
		if i < len(items)-1 {
			s.refreshLease(ctx, lease, log)
		}
	}

	outcome := integration.NewSyncOutcome(order.ID, order.Ref, results, s.now())

	// The cart has been mutated; record that even if the caller went away.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.orderRepo.UpdateSupplierSync(persistCtx, order.ID, outcome.Status, &outcome.SyncedAt, outcome.ErrorSummary()); err != nil {
		log.Error("failed to record supplier sync outcome",
			zap.String("status", outcome.Status.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("record supplier sync outcome: %w", err)
	}

	log.Info("supplier sync finished",
		zap.String("status", outcome.Status.String()),
		zap.Int("succeeded", outcome.SucceededCount()),
		zap.Int("failed", outcome.FailedCount()),
		zap.String("supplier_total", outcome.SupplierTotal.String()),
	)
	s.recorder.RecordSupplierSync(ctx, outcome.Status.String(), outcome.SucceededCount(), outcome.FailedCount(), s.now().Sub(started))

	resp := ToSyncResponse(outcome)
	return &resp, nil
}

// MarkSynced records that the order was placed at the supplier out-of-band
func (s *SupplierSyncService) MarkSynced(ctx context.Context, orderID uuid.UUID) (*SyncStatusResponse, error) {
	return s.setStatus(ctx, orderID, trade.SupplierSyncSynced)
}

// MarkFailed records that the order could not be placed at the supplier
func (s *SupplierSyncService) MarkFailed(ctx context.Context, orderID uuid.UUID) (*SyncStatusResponse, error) {
	return s.setStatus(ctx, orderID, trade.SupplierSyncFailed)
}

// Reset returns the order to pending so it shows up for sync again
func (s *SupplierSyncService) Reset(ctx context.Context, orderID uuid.UUID) (*SyncStatusResponse, error) {
	return s.setStatus(ctx, orderID, trade.SupplierSyncPending)
}

// pendingSyncPageSize is the batch size ListPendingSync reads orders in
const pendingSyncPageSize = 200

// ListPendingSync returns every order whose sync status is pending or failed,
// newest first
func (s *SupplierSyncService) ListPendingSync(ctx context.Context) ([]SyncOrderResponse, error) {
	filter := trade.OrderFilter{
		Filter:       shared.DefaultFilter(),
		SyncStatuses: []trade.SupplierSyncStatus{trade.SupplierSyncPending, trade.SupplierSyncFailed},
	}
	filter.PageSize = pendingSyncPageSize

	var orders []trade.Order
	for filter.Page = 1; ; filter.Page++ {
		batch, err := s.orderRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		orders = append(orders, batch...)
		if len(batch) < filter.Limit() {
			break
		}
	}

	var ids []uuid.UUID
	seen := map[uuid.UUID]struct{}{}
	for i := range orders {
		for _, id := range orders[i].ProductIDs() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	products, err := s.loadProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]SyncOrderResponse, len(orders))
	for i := range orders {
		out[i] = toSyncOrderResponse(&orders[i], products)
	}
	return out, nil
}

func (s *SupplierSyncService) setStatus(ctx context.Context, orderID uuid.UUID, status trade.SupplierSyncStatus) (*SyncStatusResponse, error) {
	_, release, err := s.acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	previous := order.SupplierSyncStatus
	if err := order.SetSupplierSyncStatus(status); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateSupplierSync(ctx, order.ID, order.SupplierSyncStatus, order.SupplierSyncedAt, order.SupplierSyncError); err != nil {
		return nil, err
	}

	s.logger.Info("supplier sync status set manually",
		zap.String("order_id", orderID.String()),
		zap.String("ref", order.Ref),
		zap.String("from", previous.String()),
		zap.String("to", status.String()),
	)
	return &SyncStatusResponse{OrderID: order.ID, SupplierSyncStatus: status.String()}, nil
}

func (s *SupplierSyncService) acquire(ctx context.Context, orderID uuid.UUID) (integration.Lease, func(), error) {
	lease, err := s.locker.Acquire(ctx, "supplier-sync:"+orderID.String())
	if errors.Is(err, integration.ErrLockNotObtained) {
		return nil, nil, integration.ErrSyncInProgress
	}
	if err != nil {
		return nil, nil, fmt.Errorf("acquire supplier sync lock: %w", err)
	}
	return lease, func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release supplier sync lock", zap.String("order_id", orderID.String()), zap.Error(err))
		}
	}, nil
}

// refreshLease keeps the lock alive across a long item list. A lost lease is
// logged but does not stop the sync: the cart already holds the earlier
// lines and setting a quantity is idempotent.
func (s *SupplierSyncService) refreshLease(ctx context.Context, lease integration.Lease, log *zap.Logger) {
	if err := lease.Refresh(context.WithoutCancel(ctx)); err != nil {
		log.Warn("failed to refresh supplier sync lock", zap.Error(err))
	}
}

// resolveItems maps every line to its supplier product id, failing fast when any is missing
func (s *SupplierSyncService) resolveItems(ctx context.Context, order *trade.Order) ([]syncItem, error) {
	if len(order.Items) == 0 {
		return nil, integration.ErrOrderHasNoItems
	}
	products, err := s.loadProducts(ctx, order.ProductIDs())
	if err != nil {
		return nil, err
	}

	items := make([]syncItem, 0, len(order.Items))
	var missing []string
	for _, line := range order.Items {
		p, ok := products[line.ProductID]
		name := line.ProductName
		if ok && name == "" {
			name = p.Name
		}
		if !ok || !p.HasSupplierMapping() {
			missing = append(missing, name)
			continue
		}
		items = append(items, syncItem{
			productID:         line.ProductID,
			name:              name,
			supplierProductID: *p.SupplierProductID,
			quantity:          line.Quantity,
		})
	}
	if len(missing) > 0 {
		return nil, integration.NewMissingSupplierMappingError(missing)
	}
	return items, nil
}

func (s *SupplierSyncService) loadProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	byID := make(map[uuid.UUID]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (s *SupplierSyncService) login(ctx context.Context) (*integration.SupplierSession, error) {
	creds, err := s.credentials.SupplierCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("load supplier credentials: %w", err)
	}
	if !creds.IsComplete() {
		return nil, integration.ErrSupplierAuthFailed
	}

	loginCtx, cancel := context.WithTimeout(ctx, s.config.LoginTimeout)
	defer cancel()

	session, err := s.cart.Login(loginCtx, creds)
	if err != nil {
		if errors.Is(err, integration.ErrSupplierAuthFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", integration.ErrSupplierAuthFailed, err)
	}
	return session, nil
}

func (s *SupplierSyncService) submitItem(ctx context.Context, session *integration.SupplierSession, it syncItem) integration.SyncItemResult {
	result := integration.SyncItemResult{
		ProductID:         it.productID,
		Name:              it.name,
		SupplierProductID: it.supplierProductID,
		Quantity:          it.quantity,
	}

	itemCtx, cancel := context.WithTimeout(ctx, s.config.ItemTimeout)
	defer cancel()

	res, err := s.cart.SetCartQuantity(itemCtx, session, it.supplierProductID, it.quantity)
	switch {
	case err != nil:
		result.Message = describeItemError(err)
		s.logger.Warn("supplier cart update failed",
			zap.String("product", it.name),
			zap.String("supplier_product_id", it.supplierProductID),
			zap.Error(err),
		)
	case !res.OK:
		result.Message = res.Message
		if result.Message == "" {
			result.Message = "rejected by supplier"
		}
		result.CartLine = res.Line
	default:
		result.OK = true
		result.Message = res.Message
		result.CartLine = res.Line
	}
	return result
}

func describeItemError(err error) string {
	if errors.Is(err, integration.ErrRemoteTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return "supplier did not respond in time"
	}
	return err.Error()
}
