package ledger

import (
	"sort"
	"time"

	"github.com/aurum-erp/aurum-erp/internal/voucher"
)

// Balance is a point-in-time running balance in both units.
type Balance struct {
	Gold float64 `json:"gold"`
	KWD  float64 `json:"kwd"`
}

// Entry is one ledger line derived from a voucher, annotated with the
// running balances after that voucher is applied. Entries are computed
// on demand and never persisted.
type Entry struct {
	Date        time.Time
	VoucherID   int64
	CustomerID  int64
	Type        voucher.VoucherType
	Description string

	GoldDebit  float64
	GoldCredit float64
	KWDDebit   float64
	KWDCredit  float64

	// Balances after this entry, cumulative over the whole timeline.
	GoldBalance float64
	KWDBalance  float64
}

// BuildLedger converts vouchers into chronologically ordered ledger
// entries with running balances. Invoices debit, receipts credit. Ties
// on the same date are broken by voucher id, which follows creation
// order, so same-day output is deterministic.
func BuildLedger(vouchers []voucher.Voucher) []Entry {
	if len(vouchers) == 0 {
		return []Entry{}
	}

	ordered := make([]voucher.Voucher, len(vouchers))
	copy(ordered, vouchers)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})

	entries := make([]Entry, 0, len(ordered))
	var goldBalance, kwdBalance float64
	for i := range ordered {
		v := &ordered[i]
		entry := Entry{
			Date:        v.Date,
			VoucherID:   v.ID,
			CustomerID:  v.CustomerID,
			Type:        v.Type,
			Description: v.Description(),
		}
		switch v.Type {
		case voucher.TypeInvoice:
			entry.GoldDebit = v.TotalNet
			entry.KWDDebit = v.TotalKWD
			goldBalance += v.TotalNet
			kwdBalance += v.TotalKWD
		case voucher.TypeReceipt:
			entry.GoldCredit = v.TotalNet
			entry.KWDCredit = v.TotalKWD
			goldBalance -= v.TotalNet
			kwdBalance -= v.TotalKWD
		}
		entry.GoldBalance = goldBalance
		entry.KWDBalance = kwdBalance
		entries = append(entries, entry)
	}
	return entries
}

// Report is a date-bounded slice of a ledger. Opening and closing are
// cuts of the lifetime running balance, so adjacent period reports
// always reconcile: the closing of one range is the opening of the next.
type Report struct {
	Opening Balance
	Entries []Entry
	Closing Balance
}

// BoundedReport slices entries to [from, to] inclusive. A nil bound
// leaves that side open. The opening balance is taken from the last
// entry strictly before from; balances inside the window are never
// re-derived from zero.
func BoundedReport(entries []Entry, from, to *time.Time) Report {
	report := Report{Entries: []Entry{}}

	for i := range entries {
		e := &entries[i]
		if from != nil && e.Date.Before(*from) {
			report.Opening = Balance{Gold: e.GoldBalance, KWD: e.KWDBalance}
			continue
		}
		if to != nil && e.Date.After(*to) {
			break
		}
		report.Entries = append(report.Entries, *e)
	}

	report.Closing = report.Opening
	if n := len(report.Entries); n > 0 {
		last := report.Entries[n-1]
		report.Closing = Balance{Gold: last.GoldBalance, KWD: last.KWDBalance}
	}
	return report
}
