package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cart "github.com/dmehra2102/pizzeria-ordering/internal/cart/domain"
	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
	"github.com/dmehra2102/pizzeria-ordering/internal/order/application"
	"github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
	"github.com/dmehra2102/pizzeria-ordering/internal/order/infrastructure/memory"
)

type nopRelay struct{}

func (nopRelay) Notify(context.Context, domain.Order, domain.Merchant) error { return nil }

func merchant(context.Context) (domain.Merchant, error) {
	return domain.Merchant{Name: "PizzaFuturista", Phone: "+5511940704836"}, nil
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	loc := time.FixedZone("BRT", -3*60*60)
	repo := memory.NewRepository(3)

	place := func(at time.Time, qty int, price int64) {
		item := cart.LineItem{BaseEntryID: 1, Name: "Margherita Quantum", Size: catalog.SizeSmall,
			UnitPrice: decimal.NewFromInt(price), Quantity: qty, Kind: cart.KindPlain, Signature: []string{}}
		o := domain.NewOrder([]cart.LineItem{item},
			domain.Customer{Name: "Ana", Address: "Rua A", Phone: "11 9999"}, "Pix",
			item.LineTotal(), at)
		_, err := repo.SaveWithOutbox(context.Background(), o, "")
		require.NoError(t, err)
	}
	place(time.Date(2025, 3, 1, 12, 0, 0, 0, loc), 2, 25)
	place(time.Date(2025, 3, 1, 23, 30, 0, 0, loc), 1, 40)
	place(time.Date(2025, 3, 2, 9, 0, 0, 0, loc), 1, 30)

	svc := application.NewService(log, repo, nopRelay{}, application.MerchantFunc(merchant))
	h := NewHandler(log, svc, loc)
	h.now = func() time.Time { return time.Date(2025, 3, 2, 10, 0, 0, 0, loc) }

	srv := httptest.NewServer(h.AdminRoutes())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestListAndGetOrders(t *testing.T) {
	srv := newServer(t)

	var orders []map[string]any
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/orders", nil, &orders))
	require.Len(t, orders, 3)
	assert.Equal(t, "3", orders[0]["id"])
	assert.Equal(t, "1", orders[2]["id"])

	var o map[string]any
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/orders/2", nil, &o))
	assert.Equal(t, "40", o["total"])

	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, srv.URL+"/orders/99", nil, nil))
}

func TestUpdateStatus(t *testing.T) {
	srv := newServer(t)
	url := srv.URL + "/orders/1/status"

	var o map[string]any
	require.Equal(t, http.StatusOK, call(t, http.MethodPatch, url, map[string]string{"status": "confirmed"}, &o))
	assert.Equal(t, "confirmed", o["status"])

	assert.Equal(t, http.StatusConflict, call(t, http.MethodPatch, url, map[string]string{"status": "delivered"}, nil))
	assert.Equal(t, http.StatusConflict, call(t, http.MethodPatch, url, map[string]string{"status": "pending"}, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodPatch, url, map[string]string{"status": "lost"}, nil))
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodPatch, srv.URL+"/orders/42/status", map[string]string{"status": "confirmed"}, nil))

	require.Equal(t, http.StatusOK, call(t, http.MethodPatch, url, map[string]string{"status": "Preparing"}, &o))
	assert.Equal(t, "preparing", o["status"])
}

func TestDayStats(t *testing.T) {
	srv := newServer(t)

	var got dayStatsResp
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/stats/day?date=2025-03-01", nil, &got))
	assert.Equal(t, dayStatsResp{Date: "2025-03-01", OrderCount: 2, UnitsSold: 3, Revenue: "90.00"}, got)

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/stats/day", nil, &got))
	assert.Equal(t, dayStatsResp{Date: "2025-03-02", OrderCount: 1, UnitsSold: 1, Revenue: "30.00"}, got)

	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodGet, srv.URL+"/stats/day?date=yesterday", nil, nil))
}
