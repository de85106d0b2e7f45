package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/pizzeria-ordering/internal/order/application"
	"github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
	"github.com/dmehra2102/pizzeria-ordering/pkg/httpx"
)

const dayLayout = "2006-01-02"

type Handler struct {
	log     *slog.Logger
	service *application.Service
	loc     *time.Location
	now     func() time.Time
	tracer  trace.Tracer
}

// NewHandler serves the admin order views. Days are calendar days in loc.
func NewHandler(log *slog.Logger, service *application.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		log:     log,
		service: service,
		loc:     loc,
		now:     time.Now,
		tracer:  otel.Tracer("order-http"),
	}
}

type statusReq struct {
	Status string `json:"status"`
}

type dayStatsResp struct {
	Date       string `json:"date"`
	OrderCount int    `json:"order_count"`
	UnitsSold  int    `json:"units_sold"`
	Revenue    string `json:"revenue"`
}

// AdminRoutes mounts under /admin.
func (h *Handler) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Patch("/orders/{id}/status", h.updateStatus)
	r.Get("/stats/day", h.dayStats)
	return r
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	orders, err := h.service.Orders(ctx)
	if err != nil {
		h.writeErr(w, "list orders", err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("order.id", id))
	o, err := h.service.Order(ctx, id)
	if err != nil {
		h.writeErr(w, "get order", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("order.id", id))

	var req statusReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	to, err := domain.ParseStatus(req.Status)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	o, err := h.service.AdvanceStatus(ctx, id, to)
	if err != nil {
		h.writeErr(w, "update order status", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

// dayStats serves GET /admin/stats/day?date=YYYY-MM-DD; today when date is
// omitted.
func (h *Handler) dayStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DayStats")
	defer span.End()

	ref := h.now().In(h.loc)
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := time.ParseInLocation(dayLayout, raw, h.loc)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid date %q", raw))
			return
		}
		ref = day
	}

	stats, err := h.service.DayStatistics(ctx, ref)
	if err != nil {
		h.writeErr(w, "day statistics", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dayStatsResp{
		Date:       ref.Format(dayLayout),
		OrderCount: stats.OrderCount,
		UnitsSold:  stats.UnitsSold,
		Revenue:    stats.Revenue.StringFixed(2),
	})
}

func (h *Handler) writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		httpx.WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidTransition):
		httpx.WriteError(w, http.StatusConflict, err)
	default:
		h.log.Error(op, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}
