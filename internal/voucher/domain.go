package voucher

import (
	"strings"
	"time"
)

// VoucherType enumerates voucher kinds.
type VoucherType string

const (
	// TypeInvoice is a sale. It increases what the customer owes.
	TypeInvoice VoucherType = "INVOICE"
	// TypeReceipt is a payment or return. It decreases what the customer owes.
	TypeReceipt VoucherType = "RECEIPT"
)

// Valid reports whether the type is one of the recognised values.
func (t VoucherType) Valid() bool {
	return t == TypeInvoice || t == TypeReceipt
}

// FineGoldReference is the purity of pure gold in parts per thousand.
// All net weights are normalised against it.
const FineGoldReference = 999.0

// VoucherRow is one line item on a voucher.
//
// Invoice rows derive both net weight and currency amount. Receipt rows
// derive net weight only; the currency amount is entered by the clerk,
// since refund amounts are negotiated and need not follow the discount.
type VoucherRow struct {
	ID          int64
	VoucherID   int64
	Description string
	Weight      float64
	Purity      float64
	MakingRate  float64
	DiscountPct float64

	NetWeight     float64
	AfterDiscount float64
	Amount        float64
}

// derive fills the computed fields for the given voucher type.
func (row *VoucherRow) derive(t VoucherType) {
	switch t {
	case TypeInvoice:
		row.AfterDiscount = 0
		row.NetWeight = 0
		if row.Weight != 0 && row.Purity != 0 {
			row.NetWeight = row.Weight * row.Purity / FineGoldReference
		}
		row.Amount = 0
		if row.Weight != 0 && row.MakingRate != 0 {
			row.Amount = row.Weight * row.MakingRate
		}
	case TypeReceipt:
		row.AfterDiscount = 0
		if row.Weight != 0 {
			row.AfterDiscount = row.Weight * (1 - row.DiscountPct/100)
		}
		row.NetWeight = row.AfterDiscount * row.Purity / FineGoldReference
		// Amount stays as entered.
	}
}

// Voucher is a single dated transaction against one customer.
// Rows and totals are immutable after creation; the document URL is
// attached once after the PDF export finishes.
type Voucher struct {
	ID          int64
	CustomerID  int64
	Type        VoucherType
	Date        time.Time
	Rows        []VoucherRow
	TotalNet    float64
	TotalKWD    float64
	DocumentURL string
	CreatedAt   time.Time
}

// Description joins the row descriptions for ledger display.
func (v *Voucher) Description() string {
	parts := make([]string, 0, len(v.Rows))
	for i := range v.Rows {
		if d := strings.TrimSpace(v.Rows[i].Description); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, ", ")
}

// ComputeTotals derives voucher totals from the rows. It is called once
// at creation; readers trust the stored totals afterwards.
func ComputeTotals(t VoucherType, rows []VoucherRow) (totalNet, totalKWD float64) {
	for i := range rows {
		rows[i].derive(t)
		totalNet += rows[i].NetWeight
		totalKWD += rows[i].Amount
	}
	return totalNet, totalKWD
}
