package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aurum-erp/aurum-erp/internal/customer"
	"github.com/aurum-erp/aurum-erp/internal/shared"
	"github.com/aurum-erp/aurum-erp/internal/voucher"
)

// CustomerPort is the slice of the customer store the ledger needs.
type CustomerPort interface {
	Get(ctx context.Context, id int64) (*customer.Customer, error)
	All(ctx context.Context) ([]customer.Customer, error)
}

// VoucherPort is the slice of the voucher store the ledger needs.
type VoucherPort interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]voucher.Voucher, error)
	ListAll(ctx context.Context) ([]voucher.Voucher, error)
}

// Service assembles ledgers and balance overviews from the stores.
type Service struct {
	customers CustomerPort
	vouchers  VoucherPort
	cache     *Cache
	logger    *slog.Logger
}

// NewService builds Service instance.
func NewService(customers CustomerPort, vouchers VoucherPort, cache *Cache, logger *slog.Logger) *Service {
	return &Service{customers: customers, vouchers: vouchers, cache: cache, logger: logger}
}

// Statement is a customer's bounded ledger with identity attached.
type Statement struct {
	Customer customer.Customer
	Report   Report
}

// CustomerStatement builds a date-bounded statement for one customer.
// A missing customer is a hard error for this view.
func (s *Service) CustomerStatement(ctx context.Context, customerID int64, from, to *time.Time) (*Statement, error) {
	c, err := s.customers.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("ledger: get customer: %w", err)
	}

	vouchers, err := s.vouchers.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list vouchers: %w", err)
	}

	entries := BuildLedger(vouchers)
	return &Statement{Customer: *c, Report: BoundedReport(entries, from, to)}, nil
}

// GlobalLedger builds the shop-wide bounded ledger across every
// customer. Vouchers pointing at an unknown customer are skipped with a
// warning; a dangling reference must not corrupt the whole report.
func (s *Service) GlobalLedger(ctx context.Context, from, to *time.Time) (Report, error) {
	customers, err := s.customers.All(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("ledger: list customers: %w", err)
	}
	known := make(map[int64]struct{}, len(customers))
	for i := range customers {
		known[customers[i].ID] = struct{}{}
	}

	vouchers, err := s.vouchers.ListAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("ledger: list vouchers: %w", err)
	}

	kept := vouchers[:0]
	for _, v := range vouchers {
		if _, ok := known[v.CustomerID]; !ok {
			s.logger.Warn("skipping voucher with unknown customer",
				slog.Int64("voucher_id", v.ID),
				slog.Int64("customer_id", v.CustomerID))
			continue
		}
		kept = append(kept, v)
	}

	return BoundedReport(BuildLedger(kept), from, to), nil
}

// BalancesOverview summarises every customer's balances, served from
// the versioned cache when warm. Filtering and ordering happen after
// the cache load so one cached overview serves every presentation.
func (s *Service) BalancesOverview(ctx context.Context, search, sortKey string, descending bool) ([]CustomerBalanceSummary, error) {
	key, err := s.cache.BuildKey(ctx, "ledger", "balances")
	if err != nil {
		return nil, fmt.Errorf("ledger: cache key: %w", err)
	}

	var summaries []CustomerBalanceSummary
	err = s.cache.FetchJSON(ctx, key, &summaries, func(ctx context.Context) (any, error) {
		customers, err := s.customers.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("ledger: list customers: %w", err)
		}
		return SummarizeAll(ctx, customers, s.vouchers.ListByCustomer, s.logger), nil
	})
	if err != nil {
		return nil, err
	}

	summaries = FilterSummaries(summaries, search)
	SortSummaries(summaries, sortKey, descending)
	return summaries, nil
}

// InvalidateOverview drops cached balance overviews after a write.
func (s *Service) InvalidateOverview(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump balances cache", slog.Any("error", err))
	}
}
