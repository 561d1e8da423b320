package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aurum-erp/aurum-erp/internal/platform/httpx"
	"github.com/aurum-erp/aurum-erp/internal/shared"
)

// Handler manages ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers/{id}/statement", h.customerStatement)
	r.Get("/ledger", h.globalLedger)
	r.Get("/balances", h.balancesOverview)
}

type entryResponse struct {
	Date        string  `json:"date"`
	VoucherID   int64   `json:"voucher_id"`
	CustomerID  int64   `json:"customer_id"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	GoldDebit   float64 `json:"gold_debit"`
	GoldCredit  float64 `json:"gold_credit"`
	GoldBalance float64 `json:"gold_balance"`
	KWDDebit    float64 `json:"kwd_debit"`
	KWDCredit   float64 `json:"kwd_credit"`
	KWDBalance  float64 `json:"kwd_balance"`
}

type reportResponse struct {
	Opening Balance         `json:"opening"`
	Entries []entryResponse `json:"entries"`
	Closing Balance         `json:"closing"`
}

func toReportResponse(report Report) reportResponse {
	resp := reportResponse{
		Opening: report.Opening,
		Closing: report.Closing,
		Entries: make([]entryResponse, 0, len(report.Entries)),
	}
	for _, e := range report.Entries {
		resp.Entries = append(resp.Entries, entryResponse{
			Date:        e.Date.Format("2006-01-02"),
			VoucherID:   e.VoucherID,
			CustomerID:  e.CustomerID,
			Type:        string(e.Type),
			Description: e.Description,
			GoldDebit:   e.GoldDebit,
			GoldCredit:  e.GoldCredit,
			GoldBalance: e.GoldBalance,
			KWDDebit:    e.KWDDebit,
			KWDCredit:   e.KWDCredit,
			KWDBalance:  e.KWDBalance,
		})
	}
	return resp
}

func (h *Handler) customerStatement(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "customer id must be numeric")
		return
	}
	from, to, err := parseRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Range", err.Error())
		return
	}

	statement, err := h.service.CustomerStatement(r.Context(), customerID, from, to)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(err))
			return
		}
		h.logger.Error("customer statement", slog.Any("error", err), slog.Int64("customer_id", customerID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"customer": map[string]any{
			"id":         statement.Customer.ID,
			"account_no": statement.Customer.AccountNo,
			"name":       statement.Customer.Name,
		},
		"report": toReportResponse(statement.Report),
	})
}

func (h *Handler) globalLedger(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Range", err.Error())
		return
	}

	report, err := h.service.GlobalLedger(r.Context(), from, to)
	if err != nil {
		h.logger.Error("global ledger", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"report": toReportResponse(report)})
}

func (h *Handler) balancesOverview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summaries, err := h.service.BalancesOverview(r.Context(), q.Get("q"), q.Get("sort"), q.Get("dir") == "desc")
	if err != nil {
		h.logger.Error("balances overview", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"balances": summaries})
}

// parseRange reads optional from/to bounds in YYYY-MM-DD form.
func parseRange(r *http.Request) (*time.Time, *time.Time, error) {
	parse := func(name string) (*time.Time, error) {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, errors.New(name + " must be formatted YYYY-MM-DD")
		}
		return &t, nil
	}
	from, err := parse("from")
	if err != nil {
		return nil, nil, err
	}
	to, err := parse("to")
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, errors.New("to must not precede from")
	}
	return from, to, nil
}
