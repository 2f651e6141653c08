package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wareg/internal/handler"
	"wareg/internal/middleware"
	"wareg/internal/model"
	"wareg/internal/service"
	"wareg/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct{}

func (stubAPI) ListMenus(context.Context) ([]model.MenuItem, error) {
	return []model.MenuItem{{ID: 1, Name: "Nasi Goreng", Category: model.Category{Name: "Nasi"}}}, nil
}

func (stubAPI) CreateOrder(context.Context, model.OrderRequest) error { return nil }

func newTestRouter() (http.Handler, *session.Manager) {
	return newLimitedTestRouter(session.Options{}, nil)
}

func newLimitedTestRouter(opts session.Options, limiter *middleware.ClientLimiter) (http.Handler, *session.Manager) {
	logger := zerolog.Nop()
	manager := session.NewManager(stubAPI{}, stubAPI{}, opts, logger)

	h := Handlers{
		Menu:     handler.NewMenuHandler(logger),
		Cart:     handler.NewCartHandler(service.NewCheckoutService(nil, logger), logger),
		Checkout: handler.NewCheckoutHandler(service.NewDisabledJournal(), logger),
		Session:  handler.NewSessionHandler(manager, "sid", false, logger),
	}

	return New(h, Options{
		Sessions:    manager,
		Cookie:      middleware.CookieOptions{Name: "sid"},
		TokenCookie: "token",
		ClientLimit: limiter,
	}, logger), manager
}

func TestRouter_Health(t *testing.T) {
	r, manager := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 0, manager.Len())
}

func TestRouter_Metrics(t *testing.T) {
	r, _ := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wareg_active_sessions")
}

func TestRouter_Routes(t *testing.T) {
	r, _ := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "Menus", method: http.MethodGet, path: "/api/menus", expectedStatus: http.StatusOK},
		{name: "Category", method: http.MethodPost, path: "/api/menus/categories/Nasi", expectedStatus: http.StatusOK},
		{name: "Rating", method: http.MethodPut, path: "/api/menus/rating", body: `{"rating":4}`, expectedStatus: http.StatusOK},
		{name: "Query", method: http.MethodPut, path: "/api/menus/query", body: `{"query":"nasi"}`, expectedStatus: http.StatusOK},
		{name: "Next page", method: http.MethodPost, path: "/api/menus/pages/next", expectedStatus: http.StatusOK},
		{name: "Previous page", method: http.MethodPost, path: "/api/menus/pages/previous", expectedStatus: http.StatusOK},
		{name: "Cart", method: http.MethodGet, path: "/api/cart", expectedStatus: http.StatusOK},
		{name: "Add item", method: http.MethodPost, path: "/api/cart/items", body: `{"menuId":1,"quantity":1}`, expectedStatus: http.StatusOK},
		{name: "Increase", method: http.MethodPost, path: "/api/cart/items/1/increase", expectedStatus: http.StatusOK},
		{name: "Decrease", method: http.MethodPost, path: "/api/cart/items/1/decrease", expectedStatus: http.StatusOK},
		{name: "Remove", method: http.MethodDelete, path: "/api/cart/items/1", expectedStatus: http.StatusOK},
		{name: "Submit item", method: http.MethodPost, path: "/api/cart/orders", body: `{"menuId":1}`, expectedStatus: http.StatusCreated},
		{name: "Checkout", method: http.MethodPost, path: "/api/cart/checkout", expectedStatus: http.StatusOK},
		{name: "Notifications", method: http.MethodGet, path: "/api/notifications", expectedStatus: http.StatusOK},
		{name: "Journal disabled", method: http.MethodGet, path: "/api/checkouts/7f1b3f7e-4f34-4a39-9c52-1f2a8d6f1a10", expectedStatus: http.StatusNotFound},
		{name: "End session", method: http.MethodDelete, path: "/api/session", expectedStatus: http.StatusNoContent},
		{name: "Unknown route", method: http.MethodGet, path: "/api/unknown", expectedStatus: http.StatusNotFound},
		{name: "Wrong method", method: http.MethodGet, path: "/api/cart/checkout", expectedStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_SessionCookieRoundTrip(t *testing.T) {
	r, manager := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"menuId":1,"quantity":2}`)))
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cartItems":2`)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 1, manager.Len())
}

func TestRouter_CORSPreflight(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/cart/checkout", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CookielessRequestsAreRateLimited(t *testing.T) {
	limiter := middleware.NewClientLimiter(middleware.ClientLimiterOptions{RPS: 0.001, Burst: 3})
	r, manager := newLimitedTestRouter(session.Options{
		RateLimit: session.RateLimit{RPS: 1, Burst: 1},
	}, limiter)

	codes := map[int]int{}
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/menus", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes[w.Code]++
	}

	assert.Equal(t, 3, codes[http.StatusOK])
	assert.Equal(t, 47, codes[http.StatusTooManyRequests])
	assert.Equal(t, 3, manager.Len())

	// Another client still gets through.
	req := httptest.NewRequest(http.MethodGet, "/api/menus", nil)
	req.RemoteAddr = "198.51.100.2:40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_HealthNotClientLimited(t *testing.T) {
	limiter := middleware.NewClientLimiter(middleware.ClientLimiterOptions{RPS: 0.001, Burst: 1})
	r, _ := newLimitedTestRouter(session.Options{}, limiter)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 0, limiter.Len())
}
