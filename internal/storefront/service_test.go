package storefront_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizzon-vn/bepnhanga/internal/config"
	"github.com/bizzon-vn/bepnhanga/internal/models/errs"
	"github.com/bizzon-vn/bepnhanga/internal/models/order"
	"github.com/bizzon-vn/bepnhanga/internal/storefront"
	"github.com/bizzon-vn/bepnhanga/internal/store"
	"github.com/bizzon-vn/bepnhanga/internal/widget"
	"github.com/bizzon-vn/bepnhanga/internal/ws"
	"github.com/bizzon-vn/bepnhanga/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	orders    order.List
	appendErr error
}

func (f *fakeStore) List(context.Context) (store.Snapshot, error) {
	return store.Snapshot{Orders: f.orders}, nil
}

func (f *fakeStore) Append(_ context.Context, o order.Order) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.orders = f.orders.Prepend(o)
	return nil
}

func (f *fakeStore) SetDelivered(context.Context, uuid.UUID, bool) error {
	return nil
}

type fakeNotifier struct {
	events []ws.Event
}

func (f *fakeNotifier) Broadcast(event ws.Event) {
	f.events = append(f.events, event)
}

func testConfig() *config.Config {
	return &config.Config{
		Product: config.Product{
			Name:          "Gạch cua đồng Bếp Nhà Ngà",
			UnitPrice:     130000,
			ImageCount:    3,
			SlideInterval: time.Hour,
		},
		Bank: config.Bank{
			BankID:      "VAB",
			AccountNo:   "00125223",
			Template:    "compact",
			AccountName: "Nguyen Thi Tu Anh",
		},
		RateLimit: config.RateLimit{Interval: time.Millisecond, Burst: 100},
	}
}

type env struct {
	router   http.Handler
	store    *fakeStore
	notifier *fakeNotifier
	widget   *widget.Controller
}

func newEnv(t *testing.T, cfg *config.Config) *env {
	t.Helper()

	e := &env{
		store:    &fakeStore{},
		notifier: &fakeNotifier{},
	}
	e.widget = widget.NewController(
		cfg.Product.UnitPrice, cfg.Product.ImageCount, cfg.Product.SlideInterval)

	service := storefront.New(e.store, e.widget, e.notifier, cfg, logger.NewNop())
	e.router = storefront.HandlerWithOptions(service, storefront.ChiServerOptions{
		BaseURL:          "/api",
		ErrorHandlerFunc: storefront.ErrorHandlerFunc,
	})

	return e
}

func (e *env) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)

	return w
}

func (e *env) submit(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	return e.do(t, http.MethodPost, "/api/orders", []byte(body))
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	e := newEnv(t, testConfig())

	w := e.do(t, http.MethodGet, "/api/product", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res storefront.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Gạch cua đồng Bếp Nhà Ngà", res.Name)
	assert.Equal(t, int64(130000), res.UnitPrice)
	assert.Equal(t, "130.000 ₫", res.UnitPriceText)
	assert.Equal(t, 3, res.ImageCount)
}

func TestWidgetEvents(t *testing.T) {
	t.Parallel()

	e := newEnv(t, testConfig())

	decodeState := func(w *httptest.ResponseRecorder) widget.State {
		var state widget.State
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		return state
	}

	w := e.do(t, http.MethodPost, "/api/widget/increment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(w)
	assert.Equal(t, 2, state.Quantity)
	assert.Equal(t, int64(260000), state.Total)
	assert.Equal(t, "260.000 ₫", state.TotalText)

	w = e.do(t, http.MethodPost, "/api/widget/prev-slide", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeState(w).Slide)

	w = e.do(t, http.MethodPost, "/api/widget/proceed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, widget.ViewOrderEntry, decodeState(w).View)

	// A duplicated proceed finds the wrong view and is rejected.
	w = e.do(t, http.MethodPost, "/api/widget/proceed", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/widget/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, widget.ViewProduct, decodeState(w).View)
}

func TestWidgetEventUnknown(t *testing.T) {
	t.Parallel()

	e := newEnv(t, testConfig())

	w := e.do(t, http.MethodPost, "/api/widget/explode", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitOrder(t *testing.T) {
	t.Parallel()

	e := newEnv(t, testConfig())

	// Two units at 130000 each.
	e.do(t, http.MethodPost, "/api/widget/increment", nil)
	e.do(t, http.MethodPost, "/api/widget/proceed", nil)

	w := e.submit(t, `{"name":"Tú Anh","phone":"091-234-5678","address":"Hà Nội"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var res storefront.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.Equal(t, int64(260000), res.Amount)
	assert.Equal(t, "260.000 ₫", res.AmountText)
	assert.Equal(t, "TU ANH - 0912345678", res.Description)
	assert.Equal(t,
		"https://img.vietqr.io/image/VAB-00125223-compact.png"+
			"?amount=260000&addInfo=TU%20ANH%20-%200912345678&accountName=Nguyen%20Thi%20Tu%20Anh",
		res.QRURL)
	assert.Equal(t, widget.ViewPayment, res.Widget.View)
	assert.False(t, res.Widget.Busy)
	assert.Equal(t, "VAB", res.Bank.BankID)

	require.Len(t, e.store.orders, 1)
	saved := e.store.orders[0]
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, res.OrderID, saved.ID)
	assert.Equal(t, "Tú Anh", saved.Name)
	assert.Equal(t, "0912345678", saved.Phone)
	assert.Equal(t, "Hà Nội", saved.Address)
	assert.Equal(t, 2, saved.Quantity)
	assert.Equal(t, int64(260000), saved.Total)
	assert.False(t, saved.Delivered)
	assert.False(t, saved.Date.IsZero())

	require.Len(t, e.notifier.events, 1)
	assert.Equal(t, ws.EventOrderCreated, e.notifier.events[0].Type)
}

func TestSubmitOrderSaveFailure(t *testing.T) {
	t.Parallel()

	e := newEnv(t, testConfig())
	e.store.appendErr = &errs.SaveFailedError{Reason: "API rate limit exceeded"}

	e.do(t, http.MethodPost, "/api/widget/proceed", nil)

	w := e.submit(t, `{"name":"Tú Anh","phone":"0912345678"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var errJSON errs.JSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errJSON))
	assert.Contains(t, errJSON.Error, "API rate limit exceeded")

	// The session stays on the order view, not busy, so the buyer can
	// retry once the store recovers.
	state := e.widget.State()
	assert.Equal(t, widget.ViewOrderEntry, state.View)
	assert.False(t, state.Busy)
	assert.Empty(t, e.notifier.events)

	e.store.appendErr = nil
	w = e.submit(t, `{"name":"Tú Anh","phone":"0912345678"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmitOrderValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{
			name:        "wrong content type",
			contentType: "text/plain",
			body:        `{"name":"Tú Anh","phone":"0912345678"}`,
		},
		{
			name:        "empty body",
			contentType: "application/json",
			body:        "",
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"name":`,
		},
		{
			name:        "missing name",
			contentType: "application/json",
			body:        `{"phone":"0912345678"}`,
		},
		{
			name:        "phone too short",
			contentType: "application/json",
			body:        `{"name":"Tú Anh","phone":"09123"}`,
		},
		{
			name:        "phone mostly letters",
			contentType: "application/json",
			body:        `{"name":"Tú Anh","phone":"not a phone 123"}`,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newEnv(t, testConfig())
			e.do(t, http.MethodPost, "/api/widget/proceed", nil)

			r := httptest.NewRequest(
				http.MethodPost, "/api/orders", bytes.NewReader([]byte(tt.body)))
			r.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			e.router.ServeHTTP(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, e.store.orders)
		})
	}
}

func TestSubmitOrderOutsideOrderView(t *testing.T) {
	t.Parallel()

	e := newEnv(t, testConfig())

	// Still on the product view.
	w := e.submit(t, `{"name":"Tú Anh","phone":"0912345678"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, e.store.orders)
}

func TestSubmitOrderRateLimited(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RateLimit = config.RateLimit{Interval: time.Hour, Burst: 1}
	e := newEnv(t, cfg)

	e.do(t, http.MethodPost, "/api/widget/proceed", nil)

	w := e.submit(t, `{"name":"Tú Anh","phone":"0912345678"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.submit(t, `{"name":"Tú Anh","phone":"0912345678"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
