package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/pizzeria-ordering/internal/catalog/application"
	"github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
	"github.com/dmehra2102/pizzeria-ordering/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("catalog-http"),
	}
}

type menuResp struct {
	Sizes   []domain.Size  `json:"sizes"`
	Entries []domain.Entry `json:"entries"`
}

// Menu serves GET /menu.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetMenu")
	defer span.End()

	snap, err := h.service.Snapshot(ctx)
	if err != nil {
		h.internal(w, "load menu", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, menuResp{Sizes: snap.Sizes().Sizes(), Entries: snap.Entries()})
}

// AdminRoutes mounts under /admin/menu.
func (h *Handler) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateMenuEntry")
	defer span.End()

	var req domain.Entry
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	e, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeErr(w, "create menu entry", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateMenuEntry")
	defer span.End()

	id, err := entryID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	var req domain.Entry
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	e, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeErr(w, "update menu entry", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteMenuEntry")
	defer span.End()

	id, err := entryID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.service.Delete(ctx, id); err != nil {
		h.writeErr(w, "delete menu entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entryID(r *http.Request) (domain.EntryID, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", raw)
	}
	return domain.EntryID(id), nil
}

func (h *Handler) writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		httpx.WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidEntry):
		httpx.WriteError(w, http.StatusBadRequest, err)
	default:
		h.internal(w, op, err)
	}
}

func (h *Handler) internal(w http.ResponseWriter, op string, err error) {
	h.log.Error(op, "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, errors.New("internal error"))
}
