package voucher

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aurum-erp/aurum-erp/internal/shared"
)

// totalsEpsilon bounds float drift tolerated between stored and
// row-derived totals before the advisory warning fires.
const totalsEpsilon = 1e-9

// RepositoryPort defines data access methods for vouchers.
type RepositoryPort interface {
	CreateVoucher(ctx context.Context, v Voucher) (*Voucher, error)
	GetVoucher(ctx context.Context, id int64) (*Voucher, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Voucher, error)
	ListAll(ctx context.Context) ([]Voucher, error)
	AttachDocumentURL(ctx context.Context, voucherID int64, url string) error
}

// CustomerPort is the slice of the customer store the voucher service needs.
type CustomerPort interface {
	Exists(ctx context.Context, customerID int64) (bool, error)
}

// Service handles voucher business logic.
type Service struct {
	repo      RepositoryPort
	customers CustomerPort
	logger    *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, customers CustomerPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, customers: customers, logger: logger}
}

// Create issues a voucher. Row figures and voucher totals are derived
// here, once; they are stored and trusted on every later read.
func (s *Service) Create(ctx context.Context, req CreateVoucherRequest) (*Voucher, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}

	if s.customers != nil {
		ok, err := s.customers.Exists(ctx, req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("voucher: check customer: %w", err)
		}
		if !ok {
			return nil, shared.ErrNotFound
		}
	}

	vType := VoucherType(req.Type)
	rows := make([]VoucherRow, len(req.Rows))
	for i, in := range req.Rows {
		rows[i] = VoucherRow{
			Description: strings.TrimSpace(in.Description),
			Weight:      in.Weight,
			Purity:      in.Purity,
			MakingRate:  in.MakingRate,
			DiscountPct: in.DiscountPct,
			Amount:      in.Amount,
		}
	}
	totalNet, totalKWD := ComputeTotals(vType, rows)

	return s.repo.CreateVoucher(ctx, Voucher{
		CustomerID: req.CustomerID,
		Type:       vType,
		Date:       req.Date,
		Rows:       rows,
		TotalNet:   totalNet,
		TotalKWD:   totalKWD,
		CreatedAt:  time.Now(),
	})
}

// Get returns one voucher with its rows, after an advisory totals check.
func (s *Service) Get(ctx context.Context, id int64) (*Voucher, error) {
	v, err := s.repo.GetVoucher(ctx, id)
	if err != nil {
		return nil, err
	}
	s.CheckTotals(v)
	return v, nil
}

// ListByCustomer returns a customer's vouchers in ledger order.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Voucher, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// ListAll returns every voucher in ledger order.
func (s *Service) ListAll(ctx context.Context) ([]Voucher, error) {
	return s.repo.ListAll(ctx)
}

// AttachDocumentURL records the exported document location on the voucher.
func (s *Service) AttachDocumentURL(ctx context.Context, voucherID int64, url string) error {
	if strings.TrimSpace(url) == "" {
		return shared.ErrValidation
	}
	return s.repo.AttachDocumentURL(ctx, voucherID, url)
}

// CheckTotals recomputes totals from the rows and logs when the stored
// figures disagree. Drift is advisory: the ledger keeps trusting the
// stored totals either way.
func (s *Service) CheckTotals(v *Voucher) {
	if v == nil || len(v.Rows) == 0 {
		return
	}
	rows := make([]VoucherRow, len(v.Rows))
	copy(rows, v.Rows)
	net, kwd := ComputeTotals(v.Type, rows)
	if math.Abs(net-v.TotalNet) > totalsEpsilon || math.Abs(kwd-v.TotalKWD) > totalsEpsilon {
		s.logger.Warn("voucher totals drift from rows",
			slog.Int64("voucher_id", v.ID),
			slog.Float64("stored_net", v.TotalNet),
			slog.Float64("derived_net", net),
			slog.Float64("stored_kwd", v.TotalKWD),
			slog.Float64("derived_kwd", kwd))
	}
}
