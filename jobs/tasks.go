package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskVoucherExport renders a voucher PDF and attaches its URL.
	TaskVoucherExport = "voucher:export"
)

// VoucherExportPayload identifies the voucher to export.
type VoucherExportPayload struct {
	VoucherID int64 `json:"voucher_id"`
}

// NewVoucherExportTask constructs an Asynq task.
func NewVoucherExportTask(payload VoucherExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVoucherExport, data), nil
}

// Enqueuer submits export tasks from the HTTP layer.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer wraps an Asynq client.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueVoucherExport schedules a voucher PDF export.
func (e *Enqueuer) EnqueueVoucherExport(ctx context.Context, voucherID int64) error {
	if e == nil || e.client == nil {
		return fmt.Errorf("jobs: enqueuer not configured")
	}
	task, err := NewVoucherExportTask(VoucherExportPayload{VoucherID: voucherID})
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}
