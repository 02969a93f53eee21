package accounting

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/qayd-erp/qayd/internal/accounting/shared"
	"github.com/qayd-erp/qayd/internal/platform/httpx"
)

// Handler serves the report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/journal", h.handleJournal)
	r.Get("/ledger", h.handleLedger)
	r.Get("/trial-balance", h.handleTrialBalance)
	r.Get("/income-statement", h.handleIncomeStatement)
	r.Get("/balance-sheet", h.handleBalanceSheet)
}

func (h *Handler) handleJournal(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}
	filters := JournalFilters{
		From:    window.From,
		To:      window.To,
		Account: r.URL.Query().Get("account"),
		DocType: r.URL.Query().Get("doc_type"),
	}
	if raw := r.URL.Query().Get("branch_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "branch_id must be an integer")
			return
		}
		filters.BranchID = &id
	}
	if raw := r.URL.Query().Get("cost_center_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "cost_center_id must be an integer")
			return
		}
		filters.CostCenterID = &id
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "limit must be an integer")
			return
		}
		filters.Limit = limit
	}

	rows, err := h.service.Journal(r.Context(), filters)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"journal": rows})
}

func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("account")
	if code == "" {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "account is required")
		return
	}
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}
	ledger, err := h.service.Ledger(r.Context(), code, window)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ledger)
}

func (h *Handler) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}
	report, err := h.service.TrialBalance(r.Context(), window)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}
	report, err := h.service.IncomeStatement(r.Context(), window)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	window := ReportWindow{}
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "as_of must be YYYY-MM-DD")
			return
		}
		cutoff := day.AddDate(0, 0, 1)
		window.To = &cutoff
	}
	report, err := h.service.BalanceSheet(r.Context(), window)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// parseWindow reads from/to date filters. The to day is included by shifting
// the exclusive bound to the next midnight.
func (h *Handler) parseWindow(w http.ResponseWriter, r *http.Request) (ReportWindow, bool) {
	var window ReportWindow
	if raw := r.URL.Query().Get("from"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "from must be YYYY-MM-DD")
			return ReportWindow{}, false
		}
		window.From = &day
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "to must be YYYY-MM-DD")
			return ReportWindow{}, false
		}
		end := day.AddDate(0, 0, 1)
		window.To = &end
	}
	return window, true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, shared.ErrAccountNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	h.logger.Error("report query failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "failed to build report")
}
