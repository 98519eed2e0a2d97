package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/customer-profile/internal/customers"
	"github.com/odyssey-erp/customer-profile/internal/observability"
	"github.com/odyssey-erp/customer-profile/internal/platform/cache"
	"github.com/odyssey-erp/customer-profile/internal/risk"
	"github.com/odyssey-erp/customer-profile/jobs"
)

var routerNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, cfg *Config, params RouterParams) http.Handler {
	t.Helper()
	if cfg == nil {
		cfg = &Config{RateLimitRequests: 1000, RateLimitWindow: time.Minute, AppRequestTimeout: 5 * time.Second}
	}
	logger := testLogger()
	now := func() time.Time { return routerNow }
	custSvc := customers.NewService(customers.NewMemoryRepository(customers.SeedCustomers()), customers.ServiceConfig{Now: now, Logger: logger})
	riskSvc := risk.NewService(custSvc, risk.ServiceConfig{Now: now, Logger: logger, Metrics: params.Metrics})

	params.Logger = logger
	params.Config = cfg
	params.Now = now
	params.CustomerHandler = customers.NewHandler(logger, custSvc, params.Metrics)
	params.RiskHandler = risk.NewHandler(logger, riskSvc)
	return NewRouter(params)
}

func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouterHealthAndRoot(t *testing.T) {
	h := newTestRouter(t, nil, RouterParams{})

	rr := serve(h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"customer-profile-service","timestamp":"2025-06-01T12:00:00Z"}`, rr.Body.String())

	rr = serve(h, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var info serviceInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "Customer Profile Service", info.Service)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Contains(t, info.Endpoints, "GET /customers/{id}/risk-profile - Calculate customer risk profile")
}

func TestRouterCORSOnEveryResponse(t *testing.T) {
	h := newTestRouter(t, nil, RouterParams{})

	for _, path := range []string{"/health", "/customers/1", "/customers/999", "/nowhere"} {
		rr := serve(h, http.MethodGet, path, "", nil)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "GET, PATCH, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"), path)
		assert.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"), path)
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"), path)
	}
}

func TestRouterOptionsAnyPath(t *testing.T) {
	h := newTestRouter(t, nil, RouterParams{})

	for _, path := range []string{"/", "/customers/1", "/risk-assessment/age-range"} {
		rr := serve(h, http.MethodOptions, path, "", nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `{}`, rr.Body.String(), path)
	}

	rr := serve(h, http.MethodOptions, "/customers/1", "", map[string]string{
		"Origin":                         "https://portal.example.com",
		"Access-Control-Request-Method":  http.MethodPatch,
		"Access-Control-Request-Headers": "Content-Type",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterUnknownRouteIsJSON(t *testing.T) {
	h := newTestRouter(t, nil, RouterParams{})
	rr := serve(h, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())
}

func TestRouterEndToEnd(t *testing.T) {
	metrics := observability.NewMetrics()
	h := newTestRouter(t, nil, RouterParams{Metrics: metrics})

	rr := serve(h, http.MethodPatch, "/customers/1", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "at least one")

	rr = serve(h, http.MethodPatch, "/customers/1", `{"email":"invalid-email"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = serve(h, http.MethodPatch, "/customers/1", `{"address":"9 Farm Lane, Polk County"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(h, http.MethodGet, "/customers/1/risk-profile", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var profile risk.Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	// "lane" is checked before "farm" and "county".
	assert.Equal(t, 82, profile.RiskFactors.Location.Score)
	assert.Equal(t, 7*24*time.Hour, profile.ExpiresAt.Sub(profile.CalculatedAt))

	rr = serve(h, http.MethodGet, "/risk-assessment/age-range?age=1337", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "elite_status")

	rr = serve(h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `profile_customer_updates_total{result="updated"} 1`)
	assert.Contains(t, body, `profile_customer_updates_total{result="rejected"} 2`)
	assert.Contains(t, body, `profile_risk_assessments_total{level="LOW"} 1`)
	assert.Contains(t, body, `route="/customers/{id}/risk-profile"`)
}

func TestRouterRateLimitSharedThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &Config{RateLimitRequests: 2, RateLimitWindow: time.Minute, AppRequestTimeout: 5 * time.Second}
	counter := cache.NewLimitCounter(client, "test")
	first := newTestRouter(t, cfg, RouterParams{LimitCounter: counter})
	second := newTestRouter(t, cfg, RouterParams{LimitCounter: cache.NewLimitCounter(client, "test")})

	assert.Equal(t, http.StatusOK, serve(first, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(second, http.MethodGet, "/health", "", nil).Code)

	rr := serve(first, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, rr.Body.String())
}

func TestRouterMountsJobHealth(t *testing.T) {
	h := newTestRouter(t, nil, RouterParams{JobHandler: jobs.NewHandler(nil, nil)})
	rr := serve(h, http.MethodGet, "/jobs/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"queue": "default"`)
}
