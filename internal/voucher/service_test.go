package voucher

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurum-erp/aurum-erp/internal/shared"
)

type memoryRepo struct {
	nextID   int64
	vouchers map[int64]Voucher
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, vouchers: map[int64]Voucher{}}
}

func (m *memoryRepo) CreateVoucher(ctx context.Context, v Voucher) (*Voucher, error) {
	v.ID = m.nextID
	m.nextID++
	m.vouchers[v.ID] = v
	return &v, nil
}

func (m *memoryRepo) GetVoucher(ctx context.Context, id int64) (*Voucher, error) {
	v, ok := m.vouchers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *memoryRepo) ListByCustomer(ctx context.Context, customerID int64) ([]Voucher, error) {
	var out []Voucher
	for _, v := range m.vouchers {
		if v.CustomerID == customerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListAll(ctx context.Context) ([]Voucher, error) {
	out := make([]Voucher, 0, len(m.vouchers))
	for _, v := range m.vouchers {
		out = append(out, v)
	}
	return out, nil
}

func (m *memoryRepo) AttachDocumentURL(ctx context.Context, voucherID int64, url string) error {
	v, ok := m.vouchers[voucherID]
	if !ok {
		return ErrNotFound
	}
	if v.DocumentURL != "" {
		return ErrDocumentAttached
	}
	v.DocumentURL = url
	m.vouchers[voucherID] = v
	return nil
}

type allowAllCustomers struct{}

func (allowAllCustomers) Exists(ctx context.Context, customerID int64) (bool, error) {
	return true, nil
}

type noCustomers struct{}

func (noCustomers) Exists(ctx context.Context, customerID int64) (bool, error) {
	return false, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRequest() CreateVoucherRequest {
	return CreateVoucherRequest{
		CustomerID: 1,
		Type:       string(TypeInvoice),
		Date:       time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Rows: []RowInput{
			{Description: "21k chain", Weight: 10, Purity: 916, MakingRate: 2},
		},
	}
}

func TestCreateStoresDerivedTotals(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, allowAllCustomers{}, discardLogger())

	v, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotZero(t, v.ID)
	require.InDelta(t, 10*916.0/FineGoldReference, v.TotalNet, 1e-9)
	require.InDelta(t, 20.0, v.TotalKWD, 1e-9)
	require.InDelta(t, 10*916.0/FineGoldReference, v.Rows[0].NetWeight, 1e-9)
}

func TestCreateReceiptAmountPassThrough(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, allowAllCustomers{}, discardLogger())

	req := CreateVoucherRequest{
		CustomerID: 1,
		Type:       string(TypeReceipt),
		Date:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Rows: []RowInput{
			{Description: "old gold", Weight: 10, Purity: 999, DiscountPct: 10, Amount: 37.5},
		},
	}
	v, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.InDelta(t, 9.0, v.TotalNet, 1e-9)
	require.InDelta(t, 37.5, v.TotalKWD, 1e-9)
	require.InDelta(t, 9.0, v.Rows[0].AfterDiscount, 1e-9)
}

func TestCreateValidationFailures(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, allowAllCustomers{}, discardLogger())

	cases := map[string]func(*CreateVoucherRequest){
		"missing customer":  func(r *CreateVoucherRequest) { r.CustomerID = 0 },
		"bad type":          func(r *CreateVoucherRequest) { r.Type = "PAYMENT" },
		"zero date":         func(r *CreateVoucherRequest) { r.Date = time.Time{} },
		"no rows":           func(r *CreateVoucherRequest) { r.Rows = nil },
		"blank description": func(r *CreateVoucherRequest) { r.Rows[0].Description = "  " },
		"zero weight":       func(r *CreateVoucherRequest) { r.Rows[0].Weight = 0 },
		"discount over 100": func(r *CreateVoucherRequest) { r.Rows[0].DiscountPct = 150 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := svc.Create(context.Background(), req)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}
	require.Empty(t, repo.vouchers)
}

func TestCreateUnknownCustomer(t *testing.T) {
	svc := NewService(newMemoryRepo(), noCustomers{}, discardLogger())

	_, err := svc.Create(context.Background(), validRequest())
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAttachDocumentURL(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, allowAllCustomers{}, discardLogger())

	v, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.ErrorIs(t, svc.AttachDocumentURL(context.Background(), v.ID, "  "), shared.ErrValidation)
	require.NoError(t, svc.AttachDocumentURL(context.Background(), v.ID, "https://cdn.example/voucher-1.pdf"))

	stored, err := svc.Get(context.Background(), v.ID)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/voucher-1.pdf", stored.DocumentURL)

	// Second attach must be rejected; exported documents are immutable.
	require.ErrorIs(t, svc.AttachDocumentURL(context.Background(), v.ID, "https://cdn.example/other.pdf"), ErrDocumentAttached)
}

func TestCheckTotalsWarnsOnDrift(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := NewService(newMemoryRepo(), allowAllCustomers{}, logger)

	v := &Voucher{
		ID:       9,
		Type:     TypeInvoice,
		Rows:     []VoucherRow{{Description: "ring", Weight: 10, Purity: 916, MakingRate: 2}},
		TotalNet: 123, // disagrees with the rows
		TotalKWD: 20,
	}
	svc.CheckTotals(v)
	require.True(t, strings.Contains(buf.String(), "totals drift"), "expected drift warning, log: %s", buf.String())

	// Stored figures are trusted either way.
	require.Equal(t, 123.0, v.TotalNet)

	buf.Reset()
	net, kwd := ComputeTotals(v.Type, append([]VoucherRow(nil), v.Rows...))
	v.TotalNet, v.TotalKWD = net, kwd
	svc.CheckTotals(v)
	require.Empty(t, buf.String())
}
