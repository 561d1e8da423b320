package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/aurum-erp/aurum-erp/internal/app"
	"github.com/aurum-erp/aurum-erp/internal/customer"
	"github.com/aurum-erp/aurum-erp/internal/export"
	"github.com/aurum-erp/aurum-erp/internal/observability"
	"github.com/aurum-erp/aurum-erp/internal/platform/db"
	"github.com/aurum-erp/aurum-erp/internal/voucher"
	"github.com/aurum-erp/aurum-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	customerRepo := customer.NewRepository(pool)
	customerService := customer.NewService(customerRepo)

	voucherRepo := voucher.NewRepository(pool)
	voucherService := voucher.NewService(voucherRepo, customerRepo, logger)

	exporter := &export.PDFExporter{Endpoint: cfg.GotenbergURL, Client: http.DefaultClient}
	storage := export.NewStorage(cfg.StorageURL, cfg.StoragePublicURL)
	metrics := observability.NewMetrics()

	exportJob := jobs.NewVoucherExportJob(voucherService, customerService, exporter, storage, logger, metrics, cfg.ShopName, cfg.ShopAddress)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskVoucherExport, Handler: exportJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
