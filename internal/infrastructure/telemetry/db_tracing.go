package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/infrastructure/config"
)

type contextKey string

const queryStartKey contextKey = "db_query_start"

// DBTracing registers otelgorm on a GORM handle and annotates slow queries
type DBTracing struct {
	enabled       bool
	system        string
	slowThreshold time.Duration
	provider      trace.TracerProvider
	logger        *zap.Logger
}

// NewDBTracing builds the plugin for the configured driver
func NewDBTracing(cfg config.TelemetryConfig, driver string, logger *zap.Logger) *DBTracing {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	return &DBTracing{
		enabled:       cfg.DBTraceEnabled,
		system:        dbSystem(driver),
		slowThreshold: threshold,
		logger:        logger,
	}
}

// WithTracerProvider pins the spans to a provider instead of the global one
func (d *DBTracing) WithTracerProvider(tp trace.TracerProvider) *DBTracing {
	d.provider = tp
	return d
}

func dbSystem(driver string) string {
	if driver == config.DriverSQLite {
		return "sqlite"
	}
	return "postgresql"
}

// Register installs the plugin. Query variables are never attached to spans
// since they carry customer details.
func (d *DBTracing) Register(db *gorm.DB) error {
	if !d.enabled {
		d.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(d.system),
		otelgorm.WithoutQueryVariables(),
	}
	if d.provider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(d.provider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("storefront:start_create", markStart),
		cb.Query().Before("gorm:query").Register("storefront:start_query", markStart),
		cb.Update().Before("gorm:update").Register("storefront:start_update", markStart),
		cb.Delete().Before("gorm:delete").Register("storefront:start_delete", markStart),
		cb.Row().Before("gorm:row").Register("storefront:start_row", markStart),
		cb.Raw().Before("gorm:raw").Register("storefront:start_raw", markStart),
		cb.Create().After("gorm:create").Register("storefront:slow_create", d.annotate),
		cb.Query().After("gorm:query").Register("storefront:slow_query", d.annotate),
		cb.Update().After("gorm:update").Register("storefront:slow_update", d.annotate),
		cb.Delete().After("gorm:delete").Register("storefront:slow_delete", d.annotate),
		cb.Row().After("gorm:row").Register("storefront:slow_row", d.annotate),
		cb.Raw().After("gorm:raw").Register("storefront:slow_raw", d.annotate),
	} {
		if err != nil {
			return err
		}
	}

	d.logger.Info("Database tracing enabled",
		zap.String("db_system", d.system),
		zap.Duration("slow_query_threshold", d.slowThreshold),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
	}
}

func (d *DBTracing) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > d.slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", d.slowThreshold.Milliseconds()),
		))
		d.logger.Warn("Slow database query",
			zap.String("table", db.Statement.Table),
			zap.Duration("elapsed", elapsed),
		)
	}
}
