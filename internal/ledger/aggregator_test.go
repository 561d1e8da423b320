package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurum-erp/aurum-erp/internal/customer"
	"github.com/aurum-erp/aurum-erp/internal/voucher"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSummarizeEmpty(t *testing.T) {
	c := customer.Customer{ID: 7, AccountNo: "100", Name: "Fatima"}

	summary := Summarize(c, nil)

	require.Equal(t, int64(7), summary.CustomerID)
	require.Zero(t, summary.GoldBalance)
	require.Zero(t, summary.KWDBalance)
	require.Zero(t, summary.VoucherCount)
	require.Nil(t, summary.LastActivity)
	require.False(t, summary.Failed)
}

func TestSummarizeBalancesAndActivity(t *testing.T) {
	c := customer.Customer{ID: 1, AccountNo: "55", Name: "Yousef"}
	vouchers := []voucher.Voucher{
		invoiceOn(1, date(2024, 1, 5), 10, 50),
		receiptOn(2, date(2024, 1, 10), 4, 20),
	}

	summary := Summarize(c, vouchers)

	require.Equal(t, 6.0, summary.GoldBalance)
	require.Equal(t, 30.0, summary.KWDBalance)
	require.Equal(t, 2, summary.VoucherCount)
	require.NotNil(t, summary.LastActivity)
	require.True(t, summary.LastActivity.Equal(date(2024, 1, 10)))
}

func TestSummarizeAllPartialFailure(t *testing.T) {
	customers := []customer.Customer{
		{ID: 1, AccountNo: "1", Name: "A"},
		{ID: 2, AccountNo: "2", Name: "B"},
		{ID: 3, AccountNo: "3", Name: "C"},
	}
	fetch := func(ctx context.Context, customerID int64) ([]voucher.Voucher, error) {
		if customerID == 2 {
			return nil, errors.New("store unavailable")
		}
		return []voucher.Voucher{invoiceOn(customerID, date(2024, 1, 5), 5, 10)}, nil
	}

	summaries := SummarizeAll(context.Background(), customers, fetch, discardLogger())

	require.Len(t, summaries, 3)
	require.Equal(t, 5.0, summaries[0].GoldBalance)
	require.True(t, summaries[1].Failed)
	require.Zero(t, summaries[1].GoldBalance)
	require.Equal(t, int64(2), summaries[1].CustomerID)
	require.Equal(t, 5.0, summaries[2].GoldBalance)
}

func TestSummarizeAllEmptyCustomerList(t *testing.T) {
	summaries := SummarizeAll(context.Background(), nil, func(context.Context, int64) ([]voucher.Voucher, error) {
		t.Fatal("fetch must not be called")
		return nil, nil
	}, discardLogger())
	require.Empty(t, summaries)
}
