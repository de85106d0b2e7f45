package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewLogger_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, Options{Level: "warn", Component: "storefront"})

	log.Info("hidden")
	log.Warn("shown", "order_id", "3")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "storefront", line["component"])
	assert.Equal(t, "3", line["order_id"])
}

func TestMiddlewareLogsRoute(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, Options{})

	r := chi.NewRouter()
	r.Use(middleware.RequestID, Middleware(log))
	r.Get("/sessions/{sid}/cart", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/abc/cart", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "/sessions/{sid}/cart", line["route"])
	assert.Equal(t, float64(200), line["status"])
	assert.NotEmpty(t, line["req_id"])
}
