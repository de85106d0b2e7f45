package http

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/pizzeria-ordering/internal/profile/application"
	"github.com/dmehra2102/pizzeria-ordering/internal/profile/domain"
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
		tracer:  otel.Tracer("profile-http"),
	}
}

// Get serves GET /store.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetStoreProfile")
	defer span.End()

	p, err := h.service.Profile(ctx)
	if err != nil {
		h.log.Error("load store profile", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// Update serves PUT /admin/store.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateStoreProfile")
	defer span.End()

	var req domain.Profile
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	p, err := h.service.Update(ctx, req)
	switch {
	case errors.Is(err, domain.ErrInvalidProfile):
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		h.log.Error("save store profile", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}
