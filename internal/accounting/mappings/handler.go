package mappings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qayd-erp/qayd/internal/accounting/shared"
	"github.com/qayd-erp/qayd/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{category}", h.Get)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list gl mappings", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"gl_mappings": rows})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	mapping, err := h.service.Resolve(r.Context(), category)
	if err != nil {
		if errors.Is(err, shared.ErrUnmappedCategory) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("resolve gl mapping", slog.Any("error", err), slog.String("category", category))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, mapping)
}
