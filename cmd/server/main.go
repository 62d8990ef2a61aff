package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	integrationapp "github.com/storefront/backend/internal/application/integration"
	reportapp "github.com/storefront/backend/internal/application/report"
	settingapp "github.com/storefront/backend/internal/application/setting"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/lock"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/supplier"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/migrations"
)

const meterName = "github.com/storefront/backend"

func main() {
	// A missing .env is fine; the process environment and config.toml still apply
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
	)

	ctx := context.Background()

	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	if logsProvider.IsEnabled() {
		// rebuild so every later entry is also shipped over OTLP
		exported, err := logger.New(logCfg, logger.WithCore(logsProvider.Core(logger.ParseLevel(cfg.Log.Level))))
		if err != nil {
			log.Fatal("Failed to attach log export", zap.Error(err))
		}
		log = exported
	}
	defer func() {
		if err := logsProvider.Shutdown(context.Background()); err != nil {
			log.Warn("Log export shutdown failed", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.Telemetry.ServiceName, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler stop failed", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		provider.EnableSpanProfiles()
	}

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh),
	))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := telemetry.NewDBTracing(cfg.Telemetry, db.Driver(), log).
		WithTracerProvider(provider.TracerProvider()).
		Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if err := prepareSchema(cfg, db, log); err != nil {
		log.Fatal("Failed to prepare database schema", zap.Error(err))
	}

	backends, err := lock.NewFactory(cfg.Redis, cfg.Supplier.LockTTL, lock.WithLogger(log)).Build(ctx)
	if err != nil {
		log.Fatal("Failed to initialize coordination backends", zap.Error(err))
	}
	defer func() {
		if err := backends.Close(); err != nil {
			log.Warn("Failed to close redis", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewStoreMetrics(provider.Meter(meterName))
	if err != nil {
		log.Fatal("Failed to create metrics", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Services
	pricingService := catalogapp.NewPricingService(txScope, productRepo, settingRepo, log.Named("pricing"),
		catalogapp.WithRepricingRecorder(metrics))
	productService := catalogapp.NewProductService(productRepo, settingRepo, log.Named("catalog"))
	orderService := tradeapp.NewOrderService(persistence.NewGormOrderTransactionScope(db.DB), orderRepo, productRepo, log.Named("orders"))
	settingsService := settingapp.NewSettingsService(settingRepo, pricingService, log.Named("settings"))
	dashboardService := reportapp.NewDashboardService(
		persistence.NewGormDashboardRepository(db.DB), orderRepo, pricingService, log.Named("dashboard"))

	supplierClient, err := supplier.NewClient(
		supplier.Config{BaseURL: cfg.Supplier.BaseURL, UserAgent: cfg.Supplier.UserAgent},
		supplier.WithLogger(log.Named("supplier")),
	)
	if err != nil {
		log.Fatal("Invalid supplier configuration", zap.Error(err))
	}
	syncService := integrationapp.NewSupplierSyncService(
		orderRepo, productRepo, supplierClient, settingsService, backends.Locker, log.Named("supplier_sync"),
		integrationapp.WithSyncRecorder(metrics),
		integrationapp.WithSupplierSyncConfig(integrationapp.SupplierSyncConfig{
			LoginTimeout: cfg.Supplier.LoginTimeout,
			ItemTimeout:  cfg.Supplier.ItemTimeout,
		}),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, backends.Blacklist, log.Named("auth"))
	memberService := identityapp.NewMemberService(userRepo, backends.Blacklist, cfg.JWT.Expiration, log.Named("members"))

	if err := pricingService.EnsureGlobalMarkup(ctx); err != nil {
		log.Fatal("Failed to initialize global markup", zap.Error(err))
	}
	if err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.New(router.Handlers{
		System:       handler.NewSystemHandler(telemetry.ServiceVersion, db),
		Auth:         handler.NewAuthHandler(authService),
		Products:     handler.NewProductHandler(productService),
		Orders:       handler.NewOrderHandler(orderService),
		Pricing:      handler.NewPricingHandler(pricingService),
		SupplierSync: handler.NewSupplierSyncHandler(syncService),
		Settings:     handler.NewSettingsHandler(settingsService),
		Members:      handler.NewMemberHandler(memberService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
	}, middleware.NewAuthenticator(jwtService, backends.Blacklist, log), router.Options{
		HTTP:           cfg.HTTP,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracerProvider: provider.TracerProvider(),
		Logger:         log,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// prepareSchema applies the embedded migrations on postgres. sqlite, or an
// explicit auto_migrate, builds the tables from the gorm models instead.
func prepareSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if db.Driver() == config.DriverSQLite || cfg.Database.AutoMigrate {
		log.Info("Creating schema from models")
		return db.AutoMigrate()
	}

	sqlDB, err := migration.Open(cfg.Database.DSN())
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log.Named("migrate"))
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}
