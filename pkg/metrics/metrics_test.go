package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCounters(t *testing.T) {
	m := New(prometheus.NewRegistry(), "pizzeria")

	m.OrderPlaced(decimal.RequireFromString("42.50"))
	m.OrderPlaced(decimal.NewFromInt(10))
	m.StatusChanged("confirmed")
	m.RelayFailed()
	m.OutboxDispatched("OrderCreated", true)
	m.OutboxDispatched("OrderCreated", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersPlaced))
	assert.InDelta(t, 52.5, testutil.ToFloat64(m.Revenue), 0.0001)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusChanges.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RelayFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEvents.WithLabelValues("OrderCreated", "failed")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "pizzeria")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/admin/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Method(http.MethodGet, "/metrics", Handler(reg))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orders/17", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/admin/orders/{id}", "404")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "pizzeria_http_requests_total"))
}
