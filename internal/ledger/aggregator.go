package ledger

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aurum-erp/aurum-erp/internal/customer"
	"github.com/aurum-erp/aurum-erp/internal/voucher"
)

// CustomerBalanceSummary is the per-customer line on the balances
// overview: current balances, voucher count and last activity.
type CustomerBalanceSummary struct {
	CustomerID   int64      `json:"customer_id"`
	AccountNo    string     `json:"account_no"`
	Name         string     `json:"name"`
	GoldBalance  float64    `json:"gold_balance"`
	KWDBalance   float64    `json:"kwd_balance"`
	VoucherCount int        `json:"voucher_count"`
	LastActivity *time.Time `json:"last_activity,omitempty"`

	// Failed marks a placeholder row emitted when this customer's
	// vouchers could not be fetched. Balances are zero in that case.
	Failed bool `json:"failed,omitempty"`
}

// Summarize reduces a customer's vouchers to a balance summary. An
// empty voucher list yields zero balances and no last activity.
func Summarize(c customer.Customer, vouchers []voucher.Voucher) CustomerBalanceSummary {
	summary := CustomerBalanceSummary{
		CustomerID: c.ID,
		AccountNo:  c.AccountNo,
		Name:       c.Name,
	}
	if len(vouchers) == 0 {
		return summary
	}

	entries := BuildLedger(vouchers)
	last := entries[len(entries)-1]
	summary.GoldBalance = last.GoldBalance
	summary.KWDBalance = last.KWDBalance
	summary.VoucherCount = len(entries)

	maxDate := vouchers[0].Date
	for i := 1; i < len(vouchers); i++ {
		if vouchers[i].Date.After(maxDate) {
			maxDate = vouchers[i].Date
		}
	}
	summary.LastActivity = &maxDate
	return summary
}

// aggregatorConcurrency caps the voucher fetch fan-out.
const aggregatorConcurrency = 8

// SummarizeAll builds a summary for every customer, fetching vouchers
// concurrently. A failed fetch degrades to a zero-balance placeholder
// for that customer only; the rest of the overview is unaffected.
func SummarizeAll(ctx context.Context, customers []customer.Customer, fetch func(context.Context, int64) ([]voucher.Voucher, error), logger *slog.Logger) []CustomerBalanceSummary {
	summaries := make([]CustomerBalanceSummary, len(customers))

	g := &errgroup.Group{}
	g.SetLimit(aggregatorConcurrency)
	for i := range customers {
		i := i
		g.Go(func() error {
			c := customers[i]
			vouchers, err := fetch(ctx, c.ID)
			if err != nil {
				if logger != nil {
					logger.Warn("summarize customer failed, emitting placeholder",
						slog.Int64("customer_id", c.ID),
						slog.Any("error", err))
				}
				summaries[i] = CustomerBalanceSummary{
					CustomerID: c.ID,
					AccountNo:  c.AccountNo,
					Name:       c.Name,
					Failed:     true,
				}
				return nil
			}
			summaries[i] = Summarize(c, vouchers)
			return nil
		})
	}
	// Goroutines never return errors; Wait is the fan-in barrier.
	_ = g.Wait()
	return summaries
}
