package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/V4T54L/leatherstore/internal/adapter/api/handler"
	"github.com/V4T54L/leatherstore/internal/adapter/api/middleware"
	"github.com/V4T54L/leatherstore/internal/adapter/metrics"
	"github.com/V4T54L/leatherstore/internal/pkg/clientip"
	"github.com/V4T54L/leatherstore/internal/pkg/config"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

// Dependencies are the services the storefront router dispatches to.
type Dependencies struct {
	Emitter  logger.Emitter
	Actions  *logger.ActionLogger
	Metrics  *metrics.StorefrontMetrics
	Resolver *clientip.Resolver
	Health   map[string]handler.Check

	Auth    *usecase.AuthUseCase
	Catalog *usecase.CatalogUseCase
	Contact *usecase.ContactUseCase
	Cart    *usecase.CartUseCase
	Orders  *usecase.OrderUseCase
	Admin   *usecase.AdminUseCase
}

// NewRouter creates and configures the storefront HTTP router.
func NewRouter(cfg *config.Config, logger *slog.Logger, deps Dependencies) http.Handler {
	rs := handler.NewResponder(deps.Emitter, logger)

	authHandler := handler.NewAuthHandler(deps.Auth, rs, handler.CookieConfig{
		Name:   cfg.SessionCookieName,
		TTL:    cfg.SessionTTL,
		Secure: cfg.SessionCookieSecure,
	})
	catalogHandler := handler.NewCatalogHandler(deps.Catalog, deps.Contact, rs)
	shopHandler := handler.NewShopHandler(deps.Cart, deps.Orders, rs)
	loginLimiter := middleware.NewClientLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)

	r := chi.NewRouter()

	// Logging sits outside Recover so that recovered panics are logged with their 500.
	r.Use(middleware.RequestContext(deps.Resolver))
	r.Use(middleware.Logging(deps.Emitter, middleware.LoggingConfig{
		StaticPrefix:  cfg.StaticPrefix,
		SlowThreshold: cfg.SlowRequestThreshold,
	}))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.Recover(rs))
	r.Use(middleware.MaxBytes(cfg.MaxContentLength))
	r.Use(middleware.Session(deps.Auth, cfg.SessionCookieName, logger))

	r.NotFound(rs.NotFound)
	r.MethodNotAllowed(rs.MethodNotAllowed)

	r.Method(http.MethodGet, "/health", handler.NewHealthHandler(rs, deps.Health))
	r.Handle(cfg.StaticPrefix+"*", http.StripPrefix(cfg.StaticPrefix, http.FileServer(http.Dir(cfg.StaticDir))))

	// Storefront
	r.Get("/", catalogHandler.Home)
	r.Get("/catalog", catalogHandler.Catalog)
	r.Get("/product/{slug}", catalogHandler.Product)
	r.Get("/categories", catalogHandler.Categories)
	r.Get("/blog", catalogHandler.Blog)
	r.Get("/blog/{slug}", catalogHandler.Post)
	r.Get("/about", catalogHandler.About)
	r.Get("/sitemap", catalogHandler.Sitemap)
	r.Post("/contact", catalogHandler.Contact)

	// Authentication
	r.With(middleware.LoginRateLimit(loginLimiter, deps.Actions, deps.Metrics, rs)).Post("/auth/login", authHandler.Login)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/logout", authHandler.Logout)

	// Customer area
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(rs))

		r.Get("/user/profile", authHandler.Profile)
		r.Post("/user/profile", authHandler.UpdateProfile)
		r.Get("/user/orders", shopHandler.Orders)
		r.Get("/user/orders/{id}", shopHandler.Order)

		r.Get("/cart", shopHandler.Cart)
		r.Post("/cart/add", shopHandler.AddToCart)
		r.Post("/cart/update", shopHandler.UpdateCart)
		r.Post("/cart/remove/{productID}", shopHandler.RemoveFromCart)
		r.Post("/cart/checkout", shopHandler.Checkout)
	})

	r.Route("/admin", adminRoutes(handler.NewAdminHandler(deps.Admin, rs), rs))

	return r
}

// NewMetricsRouter serves the Prometheus scrape endpoint on its own listener.
func NewMetricsRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}
