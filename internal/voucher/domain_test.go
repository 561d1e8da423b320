package voucher

import (
	"math"
	"testing"

	_ "github.com/aurum-erp/aurum-erp/testing"
)

const tolerance = 1e-9

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < tolerance
}

func TestInvoiceRowDerivation(t *testing.T) {
	row := VoucherRow{Description: "21k chain", Weight: 10, Purity: 916, MakingRate: 2}
	row.derive(TypeInvoice)

	if want := 10 * 916.0 / FineGoldReference; !closeTo(row.NetWeight, want) {
		t.Fatalf("net weight = %v, want %v", row.NetWeight, want)
	}
	if !closeTo(row.Amount, 20) {
		t.Fatalf("amount = %v, want 20", row.Amount)
	}
	if row.AfterDiscount != 0 {
		t.Fatalf("invoice rows carry no after-discount weight, got %v", row.AfterDiscount)
	}
}

func TestInvoiceRowZeroPurity(t *testing.T) {
	row := VoucherRow{Description: "stones", Weight: 5, Purity: 0, MakingRate: 3}
	row.derive(TypeInvoice)

	if row.NetWeight != 0 {
		t.Fatalf("zero purity must yield zero net weight, got %v", row.NetWeight)
	}
	if !closeTo(row.Amount, 15) {
		t.Fatalf("amount = %v, want 15", row.Amount)
	}
}

func TestReceiptRowDerivation(t *testing.T) {
	row := VoucherRow{Description: "old gold", Weight: 10, Purity: 999, DiscountPct: 10, Amount: 37.5}
	row.derive(TypeReceipt)

	if !closeTo(row.AfterDiscount, 9) {
		t.Fatalf("after discount = %v, want 9", row.AfterDiscount)
	}
	if !closeTo(row.NetWeight, 9) {
		t.Fatalf("net weight = %v, want 9", row.NetWeight)
	}
	if !closeTo(row.Amount, 37.5) {
		t.Fatalf("receipt amount must stay as entered, got %v", row.Amount)
	}
}

func TestReceiptRowNoDiscount(t *testing.T) {
	row := VoucherRow{Description: "payment", Weight: 4, Purity: 916, Amount: 100}
	row.derive(TypeReceipt)

	if !closeTo(row.AfterDiscount, 4) {
		t.Fatalf("after discount = %v, want 4", row.AfterDiscount)
	}
	if want := 4 * 916.0 / FineGoldReference; !closeTo(row.NetWeight, want) {
		t.Fatalf("net weight = %v, want %v", row.NetWeight, want)
	}
}

func TestComputeTotalsInvoice(t *testing.T) {
	rows := []VoucherRow{
		{Description: "ring", Weight: 10, Purity: 916, MakingRate: 2},
		{Description: "bangle", Weight: 5, Purity: 750, MakingRate: 4},
	}

	totalNet, totalKWD := ComputeTotals(TypeInvoice, rows)

	wantNet := 10*916.0/FineGoldReference + 5*750.0/FineGoldReference
	if !closeTo(totalNet, wantNet) {
		t.Fatalf("total net = %v, want %v", totalNet, wantNet)
	}
	if !closeTo(totalKWD, 40) {
		t.Fatalf("total kwd = %v, want 40", totalKWD)
	}
	for i := range rows {
		if rows[i].NetWeight == 0 {
			t.Fatalf("row %d was not derived in place", i)
		}
	}
}

func TestComputeTotalsReceiptAmountPassThrough(t *testing.T) {
	rows := []VoucherRow{
		{Description: "scrap", Weight: 10, Purity: 999, DiscountPct: 10, Amount: 30},
		{Description: "cash", Weight: 0, Purity: 0, Amount: 70},
	}

	totalNet, totalKWD := ComputeTotals(TypeReceipt, rows)

	if !closeTo(totalNet, 9) {
		t.Fatalf("total net = %v, want 9", totalNet)
	}
	if !closeTo(totalKWD, 100) {
		t.Fatalf("total kwd = %v, want 100", totalKWD)
	}
}

func TestVoucherTypeValid(t *testing.T) {
	if !TypeInvoice.Valid() || !TypeReceipt.Valid() {
		t.Fatal("recognised types must be valid")
	}
	if VoucherType("PAYMENT").Valid() {
		t.Fatal("unrecognised type must be invalid")
	}
}

func TestVoucherDescriptionJoinsRows(t *testing.T) {
	v := Voucher{Rows: []VoucherRow{
		{Description: "  ring "},
		{Description: ""},
		{Description: "chain"},
	}}
	if got := v.Description(); got != "ring, chain" {
		t.Fatalf("description = %q", got)
	}
}
