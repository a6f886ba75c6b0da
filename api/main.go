package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/db"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/http/router"
	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/metrics"
	"github.com/rogerio-castellano/product-catalog/internal/products"
	"github.com/rogerio-castellano/product-catalog/internal/profile"
	"github.com/rogerio-castellano/product-catalog/internal/redissvc"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx = logging.WithLogger(ctx, logger)

	productRepo, statsRepo, closeStore, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var cache products.CacheInvalidator
	if cfg.Redis.Enabled {
		redisService, err := redissvc.Connect(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer redisService.Close()
		cache = redisService
		logger.Info("redis cache invalidation enabled", zap.String("addr", cfg.Redis.Addr))
	}

	engine, err := validation.NewEngine(validation.EngineDeps{
		Checker:    validation.NewUniquenessChecker(productRepo),
		DailyLimit: cfg.Catalog.DailyLimit,
	})
	if err != nil {
		return err
	}

	otelSink, err := metrics.NewOtelSink(metrics.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	svc, err := products.NewService(products.ServiceDeps{
		Repo:      productRepo,
		Validator: engine,
		Projector: profile.NewEnricher(
			profile.WithLocale(cfg.Catalog.LocaleTag()),
			profile.WithCurrencySymbol(cfg.Catalog.CurrencySymbol),
		),
		Cache: cache,
		Sink:  metrics.Multi(metrics.NewLogSink(), otelSink),
	})
	if err != nil {
		return err
	}
	handlers.SetProductService(svc)
	handlers.SetStatsRepo(statsRepo)

	var limiter *rl.Limiter
	if cfg.RateLimit.Enabled {
		limiter = rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go limiter.StartVisitorCleanupLoop(ctx)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.NewRouter(logger, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.Server.Addr), zap.String("storage", cfg.Storage.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (repo.ProductRepository, repo.StatsRepository, func(), error) {
	if cfg.Driver != config.StoragePostgres {
		memory := repo.NewInMemoryProductRepository()
		return memory, repo.NewInMemoryStatsRepository(memory), func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to database: %w", err)
	}
	closeDB := func() {
		if err := database.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}
	if cfg.Migrate {
		if err := db.Migrate(ctx, database); err != nil {
			closeDB()
			return nil, nil, nil, err
		}
	}
	return repo.NewPostgresProductRepository(database), repo.NewPostgresStatsRepository(database), closeDB, nil
}
