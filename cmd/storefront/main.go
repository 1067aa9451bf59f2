package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/V4T54L/leatherstore/internal/adapter/api"
	"github.com/V4T54L/leatherstore/internal/adapter/api/handler"
	"github.com/V4T54L/leatherstore/internal/adapter/metrics"
	"github.com/V4T54L/leatherstore/internal/adapter/repository/postgres"
	redisrepo "github.com/V4T54L/leatherstore/internal/adapter/repository/redis"
	"github.com/V4T54L/leatherstore/internal/pkg/clientip"
	"github.com/V4T54L/leatherstore/internal/pkg/config"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewStorefrontMetrics(reg)

	logCfg, err := cfg.Log.Router(cfg.Development(), os.Stderr)
	if err != nil {
		slog.Error("invalid log configuration", "error", err)
		os.Exit(1)
	}
	logRouter, err := logger.NewRouter(logCfg, logger.WithMetrics(m))
	if err != nil {
		slog.Error("failed to open log channels", "error", err)
		os.Exit(1)
	}
	log := logRouter.Install()

	err = run(cfg, logRouter, log, reg, m)
	if err != nil {
		log.Error("storefront stopped", "error", err)
	}
	logRouter.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logRouter *logger.Router, log *slog.Logger, reg *prometheus.Registry, m *metrics.StorefrontMetrics) error {
	actions := logger.NewActionLogger(logRouter)

	resolver, err := clientip.NewResolver(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database and Redis Connections ---
	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	redisClient, err := redisrepo.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// --- Initialize Repositories ---
	users := postgres.NewUserRepository(db)
	categories := postgres.NewCategoryRepository(db)
	products := postgres.NewProductRepository(db)
	orders := postgres.NewOrderRepository(db)
	posts := postgres.NewBlogRepository(db)
	content := postgres.NewCachedContentRepository(postgres.NewContentRepository(db), log, cfg.ContentCacheTTL, m)
	messages := postgres.NewMessageRepository(db)
	slides := postgres.NewHeroSlideRepository(db)
	sessions := redisrepo.NewSessionRepository(redisClient, cfg.SessionTTL)
	carts := redisrepo.NewCartRepository(redisClient, cfg.SessionTTL)

	// --- Initialize Use Cases ---
	auth := usecase.NewAuthUseCase(users, sessions, actions, logRouter.Logger(logger.ChannelAuth))
	deps := api.Dependencies{
		Emitter:  logRouter,
		Actions:  actions,
		Metrics:  m,
		Resolver: resolver,
		Health: map[string]handler.Check{
			"postgres": db.PingContext,
			"redis": func(ctx context.Context) error {
				err := redisClient.Ping(ctx).Err()
				if redisrepo.IsUnavailable(err) {
					return fmt.Errorf("unreachable: %w", err)
				}
				return err
			},
		},
		Auth:    auth,
		Catalog: usecase.NewCatalogUseCase(products, categories, posts, content, slides, log),
		Contact: usecase.NewContactUseCase(messages, actions),
		Cart:    usecase.NewCartUseCase(carts, products, actions),
		Orders:  usecase.NewOrderUseCase(orders, products, carts, actions, log),
		Admin: usecase.NewAdminUseCase(usecase.AdminRepositories{
			Users:      users,
			Categories: categories,
			Products:   products,
			Orders:     orders,
			Posts:      posts,
			Content:    content,
			Slides:     slides,
			Messages:   messages,
			Dashboard:  postgres.NewDashboardRepository(db),
		}, auth, actions),
	}

	// --- Start Metrics Server ---
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           api.NewMetricsRouter(reg),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logRouter.ErrorLog(),
	}
	go func() {
		log.Info("starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()

	// --- Start Storefront Server ---
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewRouter(cfg, log, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     logRouter.ErrorLog(),
	}
	go func() {
		log.Info("starting storefront server", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("storefront server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("storefront server shutdown failed", "error", err)
	}

	log.Info("servers shut down gracefully")
	return nil
}
