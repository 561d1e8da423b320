package voucher

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aurum-erp/aurum-erp/internal/platform/httpx"
	"github.com/aurum-erp/aurum-erp/internal/shared"
)

// ExportEnqueuer schedules a background PDF export for a voucher.
type ExportEnqueuer interface {
	EnqueueVoucherExport(ctx context.Context, voucherID int64) error
}

// CacheInvalidator drops derived balance caches after a write.
type CacheInvalidator interface {
	InvalidateOverview(ctx context.Context)
}

// Handler manages voucher endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	exports  ExportEnqueuer
	caches   CacheInvalidator
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, exports ExportEnqueuer, caches CacheInvalidator) *Handler {
	return &Handler{logger: logger, service: service, exports: exports, caches: caches, validate: validator.New()}
}

// MountRoutes registers voucher routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/vouchers", h.createVoucher)
	r.Get("/vouchers/{id}", h.getVoucher)
	r.Get("/customers/{id}/vouchers", h.listByCustomer)
	r.Post("/vouchers/{id}/export", h.exportVoucher)
}

type rowResponse struct {
	Description   string  `json:"description"`
	Weight        float64 `json:"weight"`
	Purity        float64 `json:"purity"`
	MakingRate    float64 `json:"making_rate,omitempty"`
	DiscountPct   float64 `json:"discount_pct,omitempty"`
	NetWeight     float64 `json:"net_weight"`
	AfterDiscount float64 `json:"after_discount,omitempty"`
	Amount        float64 `json:"amount"`
}

type voucherResponse struct {
	ID          int64         `json:"id"`
	CustomerID  int64         `json:"customer_id"`
	Type        string        `json:"type"`
	Date        string        `json:"date"`
	Rows        []rowResponse `json:"rows"`
	TotalNet    float64       `json:"total_net"`
	TotalKWD    float64       `json:"total_kwd"`
	DocumentURL string        `json:"document_url,omitempty"`
}

func toResponse(v *Voucher) voucherResponse {
	resp := voucherResponse{
		ID:          v.ID,
		CustomerID:  v.CustomerID,
		Type:        string(v.Type),
		Date:        v.Date.Format("2006-01-02"),
		TotalNet:    v.TotalNet,
		TotalKWD:    v.TotalKWD,
		DocumentURL: v.DocumentURL,
	}
	for i := range v.Rows {
		row := &v.Rows[i]
		resp.Rows = append(resp.Rows, rowResponse{
			Description:   row.Description,
			Weight:        row.Weight,
			Purity:        row.Purity,
			MakingRate:    row.MakingRate,
			DiscountPct:   row.DiscountPct,
			NetWeight:     row.NetWeight,
			AfterDiscount: row.AfterDiscount,
			Amount:        row.Amount,
		})
	}
	return resp
}

func (h *Handler) createVoucher(w http.ResponseWriter, r *http.Request) {
	var req CreateVoucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	v, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create voucher", err)
		return
	}
	if h.caches != nil {
		h.caches.InvalidateOverview(r.Context())
	}
	httpx.JSON(w, http.StatusCreated, toResponse(v))
}

func (h *Handler) getVoucher(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "voucher id must be numeric")
		return
	}
	v, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get voucher", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(v))
}

func (h *Handler) listByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "customer id must be numeric")
		return
	}
	vouchers, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		h.respondError(w, "list vouchers", err)
		return
	}
	items := make([]voucherResponse, 0, len(vouchers))
	for i := range vouchers {
		items = append(items, toResponse(&vouchers[i]))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vouchers": items})
}

func (h *Handler) exportVoucher(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "voucher id must be numeric")
		return
	}
	if _, err := h.service.Get(r.Context(), id); err != nil {
		h.respondError(w, "export voucher", err)
		return
	}
	if h.exports == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Export Unavailable", "document export is not configured")
		return
	}
	if err := h.exports.EnqueueVoucherExport(r.Context(), id); err != nil {
		h.logger.Error("enqueue voucher export", slog.Any("error", err), slog.Int64("voucher_id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{"status": "queued", "voucher_id": id})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(shared.ErrNotFound))
	case errors.Is(err, shared.ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
