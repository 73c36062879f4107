package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kitforge-labs/kitforge-backend/api/routes"
	"github.com/kitforge-labs/kitforge-backend/internal/bom"
	"github.com/kitforge-labs/kitforge-backend/internal/catalog"
	"github.com/kitforge-labs/kitforge-backend/internal/inventory"
	"github.com/kitforge-labs/kitforge-backend/internal/ledger"
	"github.com/kitforge-labs/kitforge-backend/internal/orders"
	"github.com/kitforge-labs/kitforge-backend/pkg/config"
	"github.com/kitforge-labs/kitforge-backend/pkg/db"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	"github.com/kitforge-labs/kitforge-backend/pkg/metrics"
	"github.com/kitforge-labs/kitforge-backend/pkg/migrate"
	"github.com/kitforge-labs/kitforge-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	stockMetrics := metrics.NewStockMetrics(registry)

	conn := dbClient.DB()
	catalogRepo := catalog.NewRepository(conn)
	resolver, err := bom.NewResolver(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create bom resolver", err)
		os.Exit(1)
	}
	stockRepo := inventory.NewRepository(conn)
	ledgerRepo := ledger.NewRepository(conn)

	validator, err := inventory.NewValidator(resolver, stockRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock validator", err)
		os.Exit(1)
	}
	allocator, err := inventory.NewAllocator(dbClient, stockRepo, ledgerRepo, resolver, stockMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock allocator", err)
		os.Exit(1)
	}
	restorer, err := inventory.NewRestorer(dbClient, stockRepo, ledgerRepo, resolver, stockMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock restorer", err)
		os.Exit(1)
	}
	ledgerService, err := ledger.NewService(ledgerRepo, catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(orders.NewRepository(conn), dbClient, allocator, restorer, logg, cfg.Orders)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Cfg:            cfg,
			Logg:           logg,
			DBPinger:       dbClient,
			Redis:          redisClient,
			Registry:       registry,
			StockValidator: validator,
			CatalogRepo:    catalogRepo,
			LedgerService:  ledgerService,
			OrdersService:  ordersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
