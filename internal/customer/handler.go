package customer

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aurum-erp/aurum-erp/internal/platform/httpx"
	"github.com/aurum-erp/aurum-erp/internal/shared"
)

// Handler manages customer endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/customers", h.createCustomer)
	r.Get("/customers", h.listCustomers)
	r.Get("/customers/{id}", h.getCustomer)
	r.Get("/customers/by-account/{accountNo}", h.getByAccountNo)
}

type customerResponse struct {
	ID        int64  `json:"id"`
	AccountNo string `json:"account_no"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	CivilID   string `json:"civil_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toResponse(c *Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		AccountNo: c.AccountNo,
		Name:      c.Name,
		Phone:     c.Phone,
		CivilID:   c.CivilID,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	c, err := h.service.OpenAccount(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "open account", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "customer id must be numeric")
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) getByAccountNo(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetByAccountNo(r.Context(), chi.URLParam(r, "accountNo"))
	if err != nil {
		h.respondError(w, r, "get customer by account no", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	customers, pagination, err := h.service.List(r.Context(), ListCustomersRequest{
		Search:  q.Get("q"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.respondError(w, r, "list customers", err)
		return
	}

	items := make([]customerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, toResponse(&customers[i]))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"customers":  items,
		"pagination": pagination,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrDuplicateAccount):
		httpx.Problem(w, http.StatusConflict, "Duplicate", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", shared.UserSafeMessage(err))
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
