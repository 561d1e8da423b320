package ledger

import (
	"testing"
	"time"

	_ "github.com/aurum-erp/aurum-erp/testing"

	"github.com/aurum-erp/aurum-erp/internal/voucher"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func invoiceOn(id int64, day time.Time, net, kwd float64) voucher.Voucher {
	return voucher.Voucher{ID: id, CustomerID: 1, Type: voucher.TypeInvoice, Date: day, TotalNet: net, TotalKWD: kwd}
}

func receiptOn(id int64, day time.Time, net, kwd float64) voucher.Voucher {
	return voucher.Voucher{ID: id, CustomerID: 1, Type: voucher.TypeReceipt, Date: day, TotalNet: net, TotalKWD: kwd}
}

func TestBuildLedgerEmpty(t *testing.T) {
	entries := BuildLedger(nil)
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestBuildLedgerRunningBalances(t *testing.T) {
	vouchers := []voucher.Voucher{
		invoiceOn(1, date(2024, 1, 5), 10, 50),
		receiptOn(2, date(2024, 1, 10), 4, 20),
	}

	entries := BuildLedger(vouchers)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].GoldBalance != 10 || entries[0].KWDBalance != 50 {
		t.Fatalf("unexpected first balances: %v / %v", entries[0].GoldBalance, entries[0].KWDBalance)
	}
	if entries[0].GoldDebit != 10 || entries[0].GoldCredit != 0 {
		t.Fatalf("invoice must debit, got debit=%v credit=%v", entries[0].GoldDebit, entries[0].GoldCredit)
	}
	if entries[1].GoldBalance != 6 || entries[1].KWDBalance != 30 {
		t.Fatalf("unexpected second balances: %v / %v", entries[1].GoldBalance, entries[1].KWDBalance)
	}
	if entries[1].GoldCredit != 4 || entries[1].GoldDebit != 0 {
		t.Fatalf("receipt must credit, got debit=%v credit=%v", entries[1].GoldDebit, entries[1].GoldCredit)
	}
}

func TestBuildLedgerBalanceConservation(t *testing.T) {
	vouchers := []voucher.Voucher{
		invoiceOn(1, date(2024, 3, 1), 12, 60),
		receiptOn(2, date(2024, 3, 3), 5, 25),
		invoiceOn(3, date(2024, 2, 20), 7, 35),
		receiptOn(4, date(2024, 3, 10), 2, 10),
	}

	var wantGold, wantKWD float64
	for _, v := range vouchers {
		if v.Type == voucher.TypeInvoice {
			wantGold += v.TotalNet
			wantKWD += v.TotalKWD
		} else {
			wantGold -= v.TotalNet
			wantKWD -= v.TotalKWD
		}
	}

	entries := BuildLedger(vouchers)
	last := entries[len(entries)-1]
	if last.GoldBalance != wantGold || last.KWDBalance != wantKWD {
		t.Fatalf("final balance %v/%v, want %v/%v", last.GoldBalance, last.KWDBalance, wantGold, wantKWD)
	}
}

func TestBuildLedgerOrdering(t *testing.T) {
	vouchers := []voucher.Voucher{
		invoiceOn(3, date(2024, 5, 9), 1, 1),
		invoiceOn(1, date(2024, 5, 1), 1, 1),
		invoiceOn(2, date(2024, 5, 5), 1, 1),
	}
	entries := BuildLedger(vouchers)
	for i := 1; i < len(entries); i++ {
		if entries[i].Date.Before(entries[i-1].Date) {
			t.Fatalf("entries out of order at %d: %v before %v", i, entries[i].Date, entries[i-1].Date)
		}
	}
}

func TestBuildLedgerSameDateTieBreakByID(t *testing.T) {
	day := date(2024, 6, 1)
	vouchers := []voucher.Voucher{
		invoiceOn(9, day, 1, 1),
		invoiceOn(2, day, 1, 1),
		invoiceOn(5, day, 1, 1),
	}
	entries := BuildLedger(vouchers)
	want := []int64{2, 5, 9}
	for i, id := range want {
		if entries[i].VoucherID != id {
			t.Fatalf("position %d: got voucher %d, want %d", i, entries[i].VoucherID, id)
		}
	}
}

func TestBuildLedgerIdempotent(t *testing.T) {
	vouchers := []voucher.Voucher{
		invoiceOn(1, date(2024, 1, 5), 10, 50),
		receiptOn(2, date(2024, 1, 10), 4, 20),
	}
	first := BuildLedger(vouchers)
	second := BuildLedger(vouchers)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("entry %d differs between runs", i)
		}
	}
	// The input slice must not be reordered.
	if vouchers[0].ID != 1 || vouchers[1].ID != 2 {
		t.Fatalf("input slice mutated")
	}
}

func TestBoundedReportScenario(t *testing.T) {
	entries := BuildLedger([]voucher.Voucher{
		invoiceOn(1, date(2024, 1, 5), 10, 50),
		receiptOn(2, date(2024, 1, 10), 4, 20),
	})

	report := BoundedReport(entries, datePtr(2024, 1, 8), datePtr(2024, 1, 31))
	if report.Opening.Gold != 10 || report.Opening.KWD != 50 {
		t.Fatalf("unexpected opening: %+v", report.Opening)
	}
	if len(report.Entries) != 1 || report.Entries[0].VoucherID != 2 {
		t.Fatalf("unexpected window entries: %+v", report.Entries)
	}
	if report.Closing.Gold != 6 || report.Closing.KWD != 30 {
		t.Fatalf("unexpected closing: %+v", report.Closing)
	}
}

func TestBoundedReportEmptyInput(t *testing.T) {
	report := BoundedReport(nil, datePtr(2024, 1, 1), datePtr(2024, 12, 31))
	if report.Opening != (Balance{}) || report.Closing != (Balance{}) {
		t.Fatalf("expected zero balances, got %+v / %+v", report.Opening, report.Closing)
	}
	if len(report.Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(report.Entries))
	}
}

func TestBoundedReportEmptyWindowKeepsOpening(t *testing.T) {
	entries := BuildLedger([]voucher.Voucher{
		invoiceOn(1, date(2024, 1, 5), 10, 50),
	})
	report := BoundedReport(entries, datePtr(2024, 2, 1), datePtr(2024, 2, 28))
	if report.Opening.Gold != 10 || report.Closing.Gold != 10 {
		t.Fatalf("empty window must carry opening through, got %+v / %+v", report.Opening, report.Closing)
	}
}

func TestBoundedReportUnboundedSides(t *testing.T) {
	entries := BuildLedger([]voucher.Voucher{
		invoiceOn(1, date(2024, 1, 5), 10, 50),
		receiptOn(2, date(2024, 1, 10), 4, 20),
	})

	report := BoundedReport(entries, nil, nil)
	if report.Opening != (Balance{}) {
		t.Fatalf("unset start must open at zero, got %+v", report.Opening)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("expected all entries, got %d", len(report.Entries))
	}
	if report.Closing.Gold != 6 || report.Closing.KWD != 30 {
		t.Fatalf("unexpected closing: %+v", report.Closing)
	}
}

func TestBoundedReportInclusiveBounds(t *testing.T) {
	entries := BuildLedger([]voucher.Voucher{
		invoiceOn(1, date(2024, 1, 5), 10, 50),
		receiptOn(2, date(2024, 1, 10), 4, 20),
	})
	report := BoundedReport(entries, datePtr(2024, 1, 5), datePtr(2024, 1, 10))
	if len(report.Entries) != 2 {
		t.Fatalf("bounds are inclusive, expected 2 entries, got %d", len(report.Entries))
	}
}

func TestPeriodReconciliation(t *testing.T) {
	entries := BuildLedger([]voucher.Voucher{
		invoiceOn(1, date(2024, 1, 5), 10, 50),
		receiptOn(2, date(2024, 1, 20), 4, 20),
		invoiceOn(3, date(2024, 2, 2), 3, 15),
		receiptOn(4, date(2024, 2, 14), 1, 5),
	})

	january := BoundedReport(entries, datePtr(2024, 1, 1), datePtr(2024, 1, 31))
	february := BoundedReport(entries, datePtr(2024, 2, 1), datePtr(2024, 2, 29))

	if january.Closing != february.Opening {
		t.Fatalf("period boundary mismatch: closing %+v, opening %+v", january.Closing, february.Opening)
	}
}
