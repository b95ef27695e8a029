package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/httpapi"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/observability"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config.Load: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel)
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("storefront stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	shutdownTracing, err := observability.SetupTracing(ctx, cfg)
	if err != nil {
		return fmt.Errorf("observability.SetupTracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracing shutdown", zap.Error(err))
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool.Ping: %w", err)
	}

	if cfg.Migrate {
		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("db.Migrate: %w", err)
		}
		logger.Info("schema migrated")
	}

	repos := port.Repositories{
		Customers: repository.NewCustomer(pool),
		Products:  repository.NewProduct(pool),
		Orders:    repository.NewOrder(pool),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	svc, err := service.NewOrderService(repos, repository.NewUnitOfWork(pool), logger, service.WithRecorder(m))
	if err != nil {
		return fmt.Errorf("service.NewOrderService: %w", err)
	}

	h, err := httpapi.NewHandler(svc, logger)
	if err != nil {
		return fmt.Errorf("httpapi.NewHandler: %w", err)
	}

	e := httpapi.NewServer(h, m, reg, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))

		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("e.Start: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("http server shutting down")
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("e.Shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
