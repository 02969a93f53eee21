package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/qayd-erp/qayd/internal/platform/httpx"
)

// Handler exposes read-only stock views. Mutations happen through voucher
// posting, never directly against the batch ledger.
type Handler struct {
	logger *slog.Logger
	ledger *Ledger
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, ledger *Ledger) *Handler {
	return &Handler{logger: logger, ledger: ledger}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/onhand", h.handleOnHand)
	r.Get("/items/{itemID}/batches", h.handleBatches)
}

func (h *Handler) handleOnHand(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledger.OnHand(r.Context())
	if err != nil {
		h.logger.Error("onhand summary", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": summary})
}

func (h *Handler) handleBatches(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "item id must be numeric")
		return
	}
	batches, err := h.ledger.Batches(r.Context(), itemID)
	if err != nil {
		h.logger.Error("list batches", slog.Any("error", err), slog.Int64("item_id", itemID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"batches": batches})
}
