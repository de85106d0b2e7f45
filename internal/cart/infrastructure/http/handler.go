package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/pizzeria-ordering/internal/cart/application"
	"github.com/dmehra2102/pizzeria-ordering/internal/cart/domain"
	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
	orderapp "github.com/dmehra2102/pizzeria-ordering/internal/order/application"
	order "github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
	"github.com/dmehra2102/pizzeria-ordering/pkg/httpx"
)

const IdempotencyHeader = "Idempotency-Key"

var ErrDuplicateRequest = errors.New("duplicate idempotency key")

// Idempotency guards checkout retries. pkg/idempotency.Store satisfies it.
type Idempotency interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type OrderReader interface {
	Order(ctx context.Context, id string) (order.Order, error)
}

type Handler struct {
	log     *slog.Logger
	service *application.Service
	orders  OrderReader
	idem    Idempotency
	tracer  trace.Tracer
}

// NewHandler builds the storefront cart handler. idem may be nil, in which
// case the Idempotency-Key header is ignored.
func NewHandler(log *slog.Logger, service *application.Service, orders OrderReader, idem Idempotency) *Handler {
	return &Handler{
		log:     log,
		service: service,
		orders:  orders,
		idem:    idem,
		tracer:  otel.Tracer("cart-http"),
	}
}

// Routes mounts under /sessions.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.openSession)
	r.Route("/{sid}", func(r chi.Router) {
		r.Get("/cart", h.getCart)
		r.Delete("/cart", h.clearCart)
		r.Post("/cart/items", h.addItem)
		r.Patch("/cart/items/{index}", h.updateItem)
		r.Delete("/cart/items/{index}", h.removeItem)
		r.Post("/checkout", h.checkout)
	})
	return r
}

func (h *Handler) openSession(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"session_id": h.service.Open()})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.View(r.Context(), chi.URLParam(r, "sid"))
	h.respond(w, v, err)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Clear(r.Context(), chi.URLParam(r, "sid"))
	h.respond(w, v, err)
}

type addItemReq struct {
	EntryID   catalog.EntryID        `json:"entry_id"`
	Size      catalog.Size           `json:"size"`
	Kind      domain.CompositionKind `json:"kind"`
	Modifiers []string               `json:"modifiers"`
	EntryIDs  []catalog.EntryID      `json:"entry_ids"`
}

func (req addItemReq) composition() (domain.Composition, catalog.EntryID, error) {
	switch req.Kind {
	case "", domain.KindPlain:
		return domain.Plain(), req.EntryID, nil
	case domain.KindModifiers:
		return domain.WithModifiers(req.Modifiers...), req.EntryID, nil
	case domain.KindCombination:
		base := req.EntryID
		if base == 0 && len(req.EntryIDs) > 0 {
			base = req.EntryIDs[0]
		}
		return domain.Combination(req.EntryIDs...), base, nil
	}
	return domain.Composition{}, 0, fmt.Errorf("%w: kind %q", domain.ErrInvalidComposition, req.Kind)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddCartItem")
	defer span.End()

	var req addItemReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	comp, base, err := req.composition()
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	span.SetAttributes(attribute.Int64("entry_id", int64(base)), attribute.String("kind", string(comp.Kind)))

	v, err := h.service.Add(ctx, chi.URLParam(r, "sid"), base, req.Size, comp)
	h.respond(w, v, err)
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid index %q", chi.URLParam(r, "index")))
		return
	}
	var req updateItemReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	v, err := h.service.UpdateQuantity(r.Context(), chi.URLParam(r, "sid"), index, req.Quantity)
	h.respond(w, v, err)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid index %q", chi.URLParam(r, "index")))
		return
	}
	v, err := h.service.Remove(r.Context(), chi.URLParam(r, "sid"), index)
	h.respond(w, v, err)
}

type checkoutReq struct {
	Customer      order.Customer `json:"customer"`
	PaymentMethod string         `json:"payment_method"`
}

type checkoutResp struct {
	Order      order.Order `json:"order"`
	RelayError string      `json:"relay_error,omitempty"`
	Replayed   bool        `json:"replayed,omitempty"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Checkout")
	defer span.End()

	sid := chi.URLParam(r, "sid")
	var req checkoutReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}

	key := r.Header.Get(IdempotencyHeader)
	if h.idem != nil && key != "" {
		if id, ok, err := h.idem.Recall(ctx, sid, key); err == nil && ok {
			if o, err := h.orders.Order(ctx, id); err == nil {
				httpx.WriteJSON(w, http.StatusOK, checkoutResp{Order: o, Replayed: true})
				return
			}
		}
		locked, err := h.idem.TryLock(ctx, sid, key)
		if err != nil {
			h.log.Error("idempotency lock", "session_id", sid, "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, errors.New("internal error"))
			return
		}
		if !locked {
			httpx.WriteError(w, http.StatusConflict, ErrDuplicateRequest)
			return
		}
	}

	res, err := h.service.Checkout(ctx, sid, req.Customer, req.PaymentMethod)
	if err != nil {
		if h.idem != nil && key != "" {
			_ = h.idem.Release(ctx, sid, key)
		}
		h.respond(w, nil, err)
		return
	}
	if h.idem != nil && key != "" {
		if err := h.idem.Remember(ctx, sid, key, res.Order.ID); err != nil {
			h.log.Warn("idempotency remember", "order_id", res.Order.ID, "err", err)
		}
	}
	span.SetAttributes(attribute.String("order_id", res.Order.ID))

	resp := checkoutResp{Order: res.Order}
	if res.RelayErr != nil {
		resp.RelayError = res.RelayErr.Error()
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) respond(w http.ResponseWriter, v any, err error) {
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, v)
	case errors.Is(err, application.ErrSessionNotFound),
		errors.Is(err, domain.ErrUnknownCatalogEntry):
		httpx.WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrUnknownSize),
		errors.Is(err, domain.ErrUnknownModifier),
		errors.Is(err, domain.ErrInvalidComposition),
		errors.Is(err, domain.ErrCombinationSize),
		errors.Is(err, domain.ErrEmptyCombination),
		errors.Is(err, domain.ErrPriceNotFound),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, orderapp.ErrEmptyCart),
		errors.Is(err, order.ErrMissingCustomerInfo):
		httpx.WriteError(w, http.StatusBadRequest, err)
	default:
		h.log.Error("cart request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}
