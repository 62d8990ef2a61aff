package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	appintegration "github.com/storefront/backend/internal/application/integration"
)

const meterName = "github.com/storefront/backend"

// StoreMetrics records repricing runs and supplier syncs
type StoreMetrics struct {
	repricings      metric.Int64Counter
	productsTouched metric.Int64Counter
	productsChanged metric.Int64Counter
	syncs           metric.Int64Counter
	syncItems       metric.Int64Counter
	syncDuration    metric.Float64Histogram
}

// NewStoreMetrics creates the instruments on meter
func NewStoreMetrics(meter metric.Meter) (*StoreMetrics, error) {
	m := &StoreMetrics{}
	var err error

	if m.repricings, err = meter.Int64Counter("storefront.repricing.runs",
		metric.WithDescription("Sell price recomputations by trigger"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, fmt.Errorf("repricing runs counter: %w", err)
	}
	if m.productsTouched, err = meter.Int64Counter("storefront.repricing.products_touched",
		metric.WithDescription("Products whose sell price was recomputed"),
		metric.WithUnit("{product}"),
	); err != nil {
		return nil, fmt.Errorf("products touched counter: %w", err)
	}
	if m.productsChanged, err = meter.Int64Counter("storefront.repricing.products_changed",
		metric.WithDescription("Products whose stored sell price changed"),
		metric.WithUnit("{product}"),
	); err != nil {
		return nil, fmt.Errorf("products changed counter: %w", err)
	}
	if m.syncs, err = meter.Int64Counter("storefront.supplier_sync.runs",
		metric.WithDescription("Supplier cart syncs by outcome"),
		metric.WithUnit("{sync}"),
	); err != nil {
		return nil, fmt.Errorf("supplier sync counter: %w", err)
	}
	if m.syncItems, err = meter.Int64Counter("storefront.supplier_sync.items",
		metric.WithDescription("Order lines pushed to the supplier cart by result"),
		metric.WithUnit("{item}"),
	); err != nil {
		return nil, fmt.Errorf("supplier sync items counter: %w", err)
	}
	if m.syncDuration, err = meter.Float64Histogram("storefront.supplier_sync.duration",
		metric.WithDescription("Wall time of a supplier sync"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 20, 30, 60, 120),
	); err != nil {
		return nil, fmt.Errorf("supplier sync duration histogram: %w", err)
	}
	return m, nil
}

// RecordRepricing implements appcatalog.RepricingRecorder
func (m *StoreMetrics) RecordRepricing(ctx context.Context, trigger string, touched, changed int) {
	attrs := metric.WithAttributes(attribute.String("trigger", trigger))
	m.repricings.Add(ctx, 1, attrs)
	m.productsTouched.Add(ctx, int64(touched), attrs)
	m.productsChanged.Add(ctx, int64(changed), attrs)
}

// RecordSupplierSync implements appintegration.SyncRecorder
func (m *StoreMetrics) RecordSupplierSync(ctx context.Context, status string, succeeded, failed int, elapsed time.Duration) {
	statusAttr := attribute.String("status", status)
	m.syncs.Add(ctx, 1, metric.WithAttributes(statusAttr))
	m.syncItems.Add(ctx, int64(succeeded), metric.WithAttributes(attribute.String("result", "succeeded")))
	m.syncItems.Add(ctx, int64(failed), metric.WithAttributes(attribute.String("result", "failed")))
	m.syncDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(statusAttr))
}

var (
	_ appcatalog.RepricingRecorder = (*StoreMetrics)(nil)
	_ appintegration.SyncRecorder  = (*StoreMetrics)(nil)
)
