package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers are the API handlers mounted by New
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	Products     *handler.ProductHandler
	Orders       *handler.OrderHandler
	Pricing      *handler.PricingHandler
	SupplierSync *handler.SupplierSyncHandler
	Settings     *handler.SettingsHandler
	Members      *handler.MemberHandler
	Dashboard    *handler.DashboardHandler
}

// Options configure the engine built by New
type Options struct {
	HTTP           config.HTTPConfig
	ServiceName    string
	TracerProvider trace.TracerProvider
	Logger         *zap.Logger
}

// New builds the gin engine with the middleware chain and every route
func New(h Handlers, authn *middleware.Authenticator, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
			_ = engine.SetTrustedProxies(nil)
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Tracing(opts.ServiceName, opts.TracerProvider),
		middleware.SpanAttributes(),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfigFrom(opts.HTTP)),
	)
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}

	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(systemRoutes(h)).
		Register(authRoutes(h, authn, opts.HTTP.AuthRateLimit)).
		Register(storeRoutes(h, authn)).
		Register(adminRoutes(h, authn))
	r.Setup()
	return engine
}

func systemRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("system", "/system").GET("/info", h.System.Info)
}

func authRoutes(h Handlers, authn *middleware.Authenticator, perMinute int) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	var limit []gin.HandlerFunc
	if perMinute > 0 {
		limit = append(limit, middleware.RateLimit(middleware.NewRateLimiter(perMinute, time.Minute)))
	}
	g.POST("/register", append(limit, h.Auth.Register)...)
	g.POST("/login", append(limit, h.Auth.Login)...)
	g.POST("/logout", authn.Required(), h.Auth.Logout)
	g.GET("/me", authn.Required(), h.Auth.Me)
	return g
}

// storeRoutes are the shopper facing endpoints
func storeRoutes(h Handlers, authn *middleware.Authenticator) *DomainGroup {
	g := NewDomainGroup("store", "")
	g.GET("/products", h.Products.List)
	g.GET("/products/:slug", h.Products.GetBySlug)
	g.GET("/shipping-options", h.Orders.ShippingOptions)
	g.POST("/checkout", authn.Optional(), h.Orders.Checkout)
	g.GET("/orders", authn.Required(), h.Orders.MyOrders)
	return g
}

func adminRoutes(h Handlers, authn *middleware.Authenticator) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(authn.Required(), middleware.AdminOnly())

	admin.GET("/dashboard", h.Dashboard.Get)

	admin.Group("pricing", "/pricing").
		GET("", h.Pricing.GetTable).
		GET("/export", h.Pricing.Export).
		PUT("/global-markup", h.Pricing.SetGlobalMarkup).
		PUT("/products/:id/price-override", h.Pricing.SetPriceOverride).
		PUT("/products/:id/markup-override", h.Pricing.SetMarkupOverride).
		POST("/recalculate", h.Pricing.Recalculate)

	admin.Group("supplier-sync", "/supplier-sync").
		GET("/orders", h.SupplierSync.ListPending).
		POST("/orders/:id/sync", h.SupplierSync.Sync).
		POST("/orders/:id/mark-synced", h.SupplierSync.MarkSynced).
		POST("/orders/:id/mark-failed", h.SupplierSync.MarkFailed).
		POST("/orders/:id/reset", h.SupplierSync.Reset)

	admin.Group("products", "/products").
		POST("", h.Products.Create).
		PUT("/:id/sold-out", h.Products.SetSoldOut).
		PUT("/:id/supplier-product-id", h.Products.SetSupplierProductID)

	admin.Group("orders", "/orders").
		GET("", h.Orders.List).
		GET("/:id", h.Orders.Get).
		PUT("/:id/status", h.Orders.UpdateStatus).
		PUT("/:id/details", h.Orders.UpdateDetails).
		PUT("/:id/items", h.Orders.UpdateItems)

	admin.Group("settings", "/settings").
		GET("", h.Settings.Get).
		PUT("", h.Settings.Update)

	admin.Group("members", "/members").
		GET("", h.Members.List).
		POST("/:id/approve", h.Members.Approve).
		DELETE("/:id", h.Members.Reject)

	return admin
}
