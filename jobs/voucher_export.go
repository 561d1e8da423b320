package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/aurum-erp/aurum-erp/internal/customer"
	"github.com/aurum-erp/aurum-erp/internal/export"
	"github.com/aurum-erp/aurum-erp/internal/observability"
	"github.com/aurum-erp/aurum-erp/internal/voucher"
)

// VoucherExportJob renders a voucher to PDF, uploads it to object
// storage and attaches the resulting URL back onto the voucher.
type VoucherExportJob struct {
	vouchers    *voucher.Service
	customers   *customer.Service
	exporter    *export.PDFExporter
	storage     *export.Storage
	logger      *slog.Logger
	metrics     *observability.Metrics
	shopName    string
	shopAddress string
}

// NewVoucherExportJob wires the export pipeline dependencies.
func NewVoucherExportJob(vouchers *voucher.Service, customers *customer.Service, exporter *export.PDFExporter, storage *export.Storage, logger *slog.Logger, metrics *observability.Metrics, shopName, shopAddress string) *VoucherExportJob {
	return &VoucherExportJob{
		vouchers:    vouchers,
		customers:   customers,
		exporter:    exporter,
		storage:     storage,
		logger:      logger,
		metrics:     metrics,
		shopName:    shopName,
		shopAddress: shopAddress,
	}
}

// Handle processes TaskVoucherExport tasks.
func (j *VoucherExportJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload VoucherExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	err := j.run(ctx, payload.VoucherID)
	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, asynq.SkipRetry) {
			status = "skipped"
		}
	}
	j.metrics.ObserveJob(TaskVoucherExport, status)
	return err
}

func (j *VoucherExportJob) run(ctx context.Context, voucherID int64) error {
	v, err := j.vouchers.Get(ctx, voucherID)
	if err != nil {
		if errors.Is(err, voucher.ErrNotFound) {
			j.logger.Warn("export requested for unknown voucher", slog.Int64("voucher_id", voucherID))
			return asynq.SkipRetry
		}
		return fmt.Errorf("jobs: load voucher: %w", err)
	}
	if v.DocumentURL != "" {
		j.logger.Info("voucher already exported", slog.Int64("voucher_id", voucherID))
		return nil
	}

	c, err := j.customers.Get(ctx, v.CustomerID)
	if err != nil {
		return fmt.Errorf("jobs: load customer: %w", err)
	}

	pdf, err := j.exporter.RenderVoucher(ctx, export.VoucherPayload{
		ShopName:    j.shopName,
		ShopAddress: j.shopAddress,
		Customer:    *c,
		Voucher:     *v,
	})
	if err != nil {
		return fmt.Errorf("jobs: render voucher: %w", err)
	}

	filename := fmt.Sprintf("voucher-%d-%s.pdf", voucherID, uuid.NewString())
	url, err := j.storage.Upload(ctx, filename, pdf)
	if err != nil {
		return fmt.Errorf("jobs: upload voucher: %w", err)
	}

	if err := j.vouchers.AttachDocumentURL(ctx, voucherID, url); err != nil {
		return fmt.Errorf("jobs: attach document url: %w", err)
	}

	j.logger.Info("voucher exported",
		slog.Int64("voucher_id", voucherID),
		slog.String("url", url))
	return nil
}
