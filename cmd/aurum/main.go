package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aurum-erp/aurum-erp/internal/app"
	"github.com/aurum-erp/aurum-erp/internal/customer"
	"github.com/aurum-erp/aurum-erp/internal/ledger"
	"github.com/aurum-erp/aurum-erp/internal/observability"
	"github.com/aurum-erp/aurum-erp/internal/platform/cache"
	"github.com/aurum-erp/aurum-erp/internal/platform/db"
	"github.com/aurum-erp/aurum-erp/internal/voucher"
	"github.com/aurum-erp/aurum-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	customerRepo := customer.NewRepository(dbpool)
	customerService := customer.NewService(customerRepo)
	customerHandler := customer.NewHandler(logger, customerService)

	voucherRepo := voucher.NewRepository(dbpool)
	voucherService := voucher.NewService(voucherRepo, customerRepo, logger)

	balanceCache := ledger.NewCache(redisClient, cfg.BalanceCacheTTL)
	ledgerService := ledger.NewService(customerRepo, voucherRepo, balanceCache, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()
	enqueuer := jobs.NewEnqueuer(asynqClient)
	voucherHandler := voucher.NewHandler(logger, voucherService, enqueuer, ledgerService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		CustomerHandler: customerHandler,
		VoucherHandler:  voucherHandler,
		LedgerHandler:   ledgerHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
