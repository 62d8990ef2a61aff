package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/infrastructure/config"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NotNil(t, p.Tracer("test"))
	assert.NotNil(t, p.Meter("test"))
	assert.NotNil(t, p.TracerProvider())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1.0).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key string) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key(key))
		out[v.AsString()] += dp.Value
	}
	return out
}

func newTestMetrics(t *testing.T) (*StoreMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewStoreMetrics(mp.Meter(meterName))
	require.NoError(t, err)
	return m, reader
}

func TestStoreMetrics_RecordRepricing(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordRepricing(ctx, "global_markup", 4, 3)
	m.RecordRepricing(ctx, "recalc_all", 5, 0)
	m.RecordRepricing(ctx, "global_markup", 4, 1)

	got := collect(t, reader)
	assert.Equal(t, map[string]int64{"global_markup": 2, "recalc_all": 1}, sumByAttr(t, got["storefront.repricing.runs"], "trigger"))
	assert.Equal(t, map[string]int64{"global_markup": 8, "recalc_all": 5}, sumByAttr(t, got["storefront.repricing.products_touched"], "trigger"))
	assert.Equal(t, map[string]int64{"global_markup": 4, "recalc_all": 0}, sumByAttr(t, got["storefront.repricing.products_changed"], "trigger"))
}

func TestStoreMetrics_RecordSupplierSync(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordSupplierSync(ctx, "synced", 3, 0, 2*time.Second)
	m.RecordSupplierSync(ctx, "partial", 1, 2, 4*time.Second)

	got := collect(t, reader)
	assert.Equal(t, map[string]int64{"synced": 1, "partial": 1}, sumByAttr(t, got["storefront.supplier_sync.runs"], "status"))
	assert.Equal(t, map[string]int64{"succeeded": 4, "failed": 2}, sumByAttr(t, got["storefront.supplier_sync.items"], "result"))

	hist, ok := got["storefront.supplier_sync.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	var total float64
	for _, dp := range hist.DataPoints {
		count += dp.Count
		total += dp.Sum
	}
	assert.Equal(t, uint64(2), count)
	assert.InDelta(t, 6.0, total, 0.001)
}

type widget struct {
	ID   uint
	Name string
}

func newTracedDB(t *testing.T, cfg config.TelemetryConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	require.NoError(t, NewDBTracing(cfg, config.DriverSQLite, zap.NewNop()).WithTracerProvider(tp).Register(db))
	return db, recorder
}

func TestDBTracing_Disabled(t *testing.T) {
	db, recorder := newTracedDB(t, config.TelemetryConfig{DBTraceEnabled: false})

	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestDBTracing_RecordsQuerySpans(t *testing.T) {
	db, recorder := newTracedDB(t, config.TelemetryConfig{DBTraceEnabled: true, DBSlowQueryThresh: time.Hour})
	ctx := context.Background()

	require.NoError(t, db.WithContext(ctx).Create(&widget{Name: "a"}).Error)
	var got []widget
	require.NoError(t, db.WithContext(ctx).Where("name = ?", "secret-value").Find(&got).Error)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	for _, s := range spans {
		for _, kv := range s.Attributes() {
			assert.NotContains(t, kv.Value.Emit(), "secret-value", "query variables must not reach spans")
		}
	}
}

func TestDBSystem(t *testing.T) {
	assert.Equal(t, "sqlite", dbSystem(config.DriverSQLite))
	assert.Equal(t, "postgresql", dbSystem(config.DriverPostgres))
	assert.Equal(t, "postgresql", dbSystem(""))
}
