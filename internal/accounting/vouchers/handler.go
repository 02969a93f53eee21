package vouchers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qayd-erp/qayd/internal/accounting/shared"
	"github.com/qayd-erp/qayd/internal/inventory"
	mdshared "github.com/qayd-erp/qayd/internal/masterdata/shared"
	"github.com/qayd-erp/qayd/internal/platform/httpx"
	internalShared "github.com/qayd-erp/qayd/internal/shared"
)

const idempotencyModule = "vouchers"

// IdempotencyGuard claims request keys so a retried post cannot write twice.
type IdempotencyGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// Handler wires the posting endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	idem      IdempotencyGuard
}

// NewHandler constructs vouchers handler. A nil guard disables idempotency
// key handling.
func NewHandler(logger *slog.Logger, service *Service, idem IdempotencyGuard) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New(), idem: idem}
}

// MountRoutes registers posting routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/sales", h.handleSale)
	r.Post("/purchases", h.handlePurchase)
	r.Post("/receipts", h.handleReceipt)
	r.Post("/payments", h.handlePayment)
	r.Post("/journals", h.handleJournal)
	r.Post("/sales-returns", h.handleSalesReturn)
	r.Post("/purchase-returns", h.handlePurchaseReturn)
	r.Get("/{docNo}", h.handleGet)
}

func (h *Handler) handleSale(w http.ResponseWriter, r *http.Request) {
	var in SaleInput
	if !h.decode(w, r, &in) {
		return
	}
	h.post(w, r, "post sale", func(ctx context.Context) (Document, error) {
		return h.service.PostSale(ctx, in)
	})
}

func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var in PurchaseInput
	if !h.decode(w, r, &in) {
		return
	}
	h.post(w, r, "post purchase", func(ctx context.Context) (Document, error) {
		return h.service.PostPurchase(ctx, in)
	})
}

func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	var in ReceiptInput
	if !h.decode(w, r, &in) {
		return
	}
	h.post(w, r, "post receipt", func(ctx context.Context) (Document, error) {
		return h.service.PostReceipt(ctx, in)
	})
}

func (h *Handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	var in PaymentInput
	if !h.decode(w, r, &in) {
		return
	}
	h.post(w, r, "post payment", func(ctx context.Context) (Document, error) {
		return h.service.PostPayment(ctx, in)
	})
}

func (h *Handler) handleJournal(w http.ResponseWriter, r *http.Request) {
	var in JournalInput
	if !h.decode(w, r, &in) {
		return
	}
	h.post(w, r, "post journal", func(ctx context.Context) (Document, error) {
		return h.service.PostJournal(ctx, in)
	})
}

func (h *Handler) handleSalesReturn(w http.ResponseWriter, r *http.Request) {
	var in SalesReturnInput
	if !h.decode(w, r, &in) {
		return
	}
	h.post(w, r, "post sales return", func(ctx context.Context) (Document, error) {
		return h.service.PostSalesReturn(ctx, in)
	})
}

func (h *Handler) handlePurchaseReturn(w http.ResponseWriter, r *http.Request) {
	var in PurchaseReturnInput
	if !h.decode(w, r, &in) {
		return
	}
	h.post(w, r, "post purchase return", func(ctx context.Context) (Document, error) {
		return h.service.PostPurchaseReturn(ctx, in)
	})
}

// post runs a posting under the request's idempotency key, if any. The key is
// released when the posting fails so the client can retry it.
func (h *Handler) post(w http.ResponseWriter, r *http.Request, op string, run func(context.Context) (Document, error)) {
	key, ok := h.claimKey(w, r)
	if !ok {
		return
	}
	doc, err := run(r.Context())
	if err != nil {
		h.releaseKey(r.Context(), key)
		h.respondError(w, op, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) claimKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := r.Header.Get("Idempotency-Key")
	if key == "" || h.idem == nil {
		return "", true
	}
	if err := h.idem.CheckAndInsert(r.Context(), key, idempotencyModule); err != nil {
		if errors.Is(err, internalShared.ErrIdempotencyConflict) {
			httpx.Problem(w, http.StatusConflict, "Duplicate Request", err.Error())
			return "", false
		}
		h.logger.Error("claim idempotency key", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return "", false
	}
	return key, true
}

func (h *Handler) releaseKey(ctx context.Context, key string) {
	if key == "" || h.idem == nil {
		return
	}
	if err := h.idem.Delete(ctx, key, idempotencyModule); err != nil {
		h.logger.Warn("release idempotency key", slog.String("key", key), slog.Any("error", err))
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.GetDocument(r.Context(), chi.URLParam(r, "docNo"))
	if err != nil {
		h.respondError(w, "get document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return false
	}
	return true
}

// respondError translates posting failures into problem responses. An
// imbalance is the one failure reported as a server fault: the engine, not
// the caller, derives the legs.
func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var imbalance *ImbalanceError
	switch {
	case errors.As(err, &imbalance):
		h.logger.Error(op+" produced unbalanced legs", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "posting produced unbalanced legs")
	case errors.Is(err, inventory.ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.Is(err, shared.ErrDocumentNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrUnmappedCategory),
		errors.Is(err, shared.ErrAccountNotFound),
		errors.Is(err, shared.ErrInvalidAmount),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrTooFewLines),
		errors.Is(err, shared.ErrUnbalanced),
		errors.Is(err, shared.ErrReturnCostUnknown),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInvalidUnitCost),
		errors.Is(err, mdshared.ErrNotFound):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
