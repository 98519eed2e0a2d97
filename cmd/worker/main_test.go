package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/customer-profile/internal/app"
	"github.com/odyssey-erp/customer-profile/internal/customers"
	jobmetrics "github.com/odyssey-erp/customer-profile/internal/jobs"
	"github.com/odyssey-erp/customer-profile/internal/observability"
	_ "github.com/odyssey-erp/customer-profile/internal/testing/guard"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	app.RefreshTestMode()
	require.True(t, app.InTestMode())
	main()
}

func TestRunRequiresRedis(t *testing.T) {
	err := run(context.Background(), &app.Config{StoreDriver: app.StoreMemory}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")
}

func TestSweepCountsReviewsNotAssessments(t *testing.T) {
	metrics := observability.NewMetrics()
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())
	repo := customers.NewMemoryRepository(customers.SeedCustomers())

	_, sweepJob := newJobs(repo, jobMetrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
	summary, err := sweepJob.Sweep(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, summary.Scored)

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "profile_risk_reviews_total{level=")
	assert.NotContains(t, body, "profile_risk_assessments_total{")
}
