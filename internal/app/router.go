package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aurum-erp/aurum-erp/internal/customer"
	"github.com/aurum-erp/aurum-erp/internal/ledger"
	"github.com/aurum-erp/aurum-erp/internal/observability"
	"github.com/aurum-erp/aurum-erp/internal/voucher"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	CustomerHandler *customer.Handler
	VoucherHandler  *voucher.Handler
	LedgerHandler   *ledger.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Aurum defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		if params.CustomerHandler != nil {
			params.CustomerHandler.MountRoutes(api)
		}
		if params.VoucherHandler != nil {
			params.VoucherHandler.MountRoutes(api)
		}
		if params.LedgerHandler != nil {
			params.LedgerHandler.MountRoutes(api)
		}
	})

	return r
}
