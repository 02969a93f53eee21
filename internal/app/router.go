package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/qayd-erp/qayd/internal/accounting"
	"github.com/qayd-erp/qayd/internal/accounting/accounts"
	"github.com/qayd-erp/qayd/internal/accounting/mappings"
	"github.com/qayd-erp/qayd/internal/accounting/vouchers"
	"github.com/qayd-erp/qayd/internal/inventory"
	"github.com/qayd-erp/qayd/internal/masterdata/branches"
	"github.com/qayd-erp/qayd/internal/masterdata/costcenters"
	"github.com/qayd-erp/qayd/internal/masterdata/items"
	"github.com/qayd-erp/qayd/internal/observability"
	"github.com/qayd-erp/qayd/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	VouchersHandler    *vouchers.Handler
	ReportsHandler     *accounting.Handler
	AccountsHandler    *accounts.Handler
	MappingsHandler    *mappings.Handler
	InventoryHandler   *inventory.Handler
	ItemsHandler       *items.Handler
	BranchesHandler    *branches.Handler
	CostCentersHandler *costcenters.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Qayd defaults.
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

	r.Route("/vouchers", params.VouchersHandler.MountRoutes)
	r.Route("/reports", params.ReportsHandler.MountRoutes)
	r.Route("/inventory", params.InventoryHandler.MountRoutes)

	r.Route("/masterdata", func(r chi.Router) {
		r.Route("/items", params.ItemsHandler.MountRoutes)
		r.Route("/branches", params.BranchesHandler.MountRoutes)
		r.Route("/cost-centers", params.CostCentersHandler.MountRoutes)
		r.Route("/accounts", params.AccountsHandler.MountRoutes)
		r.Route("/gl-mappings", params.MappingsHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
