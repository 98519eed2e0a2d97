package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/odyssey-erp/customer-profile/internal/customers"
	"github.com/odyssey-erp/customer-profile/internal/observability"
	"github.com/odyssey-erp/customer-profile/internal/platform/httpx"
	"github.com/odyssey-erp/customer-profile/internal/risk"
	"github.com/odyssey-erp/customer-profile/jobs"
)

const (
	serviceName    = "Customer Profile Service"
	serviceID      = "customer-profile-service"
	serviceVersion = "1.0.0"
)

// Endpoints is the listing served at the root.
var Endpoints = []string{
	"GET /customers/{id} - Fetch customer profile",
	"PATCH /customers/{id} - Update customer profile",
	"GET /customers/{id}/risk-profile - Calculate customer risk profile",
	"GET /health - Health check",
	"GET /risk-assessment/age-range?age={age} - Get risk assessment information for age range",
	"GET /metrics - Prometheus metrics",
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Metrics         *observability.Metrics
	LimitCounter    httprate.LimitCounter
	CustomerHandler *customers.Handler
	RiskHandler     *risk.Handler
	JobHandler      *jobs.Handler
	// AccessLog toggles chi's request logger.
	AccessLog bool
	Now       func() time.Time
}

type serviceInfo struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

type healthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:       params.Logger,
		Config:       params.Config,
		Metrics:      params.Metrics,
		LimitCounter: params.LimitCounter,
	}) {
		r.Use(mw)
	}
	if params.AccessLog {
		r.Use(chimw.Logger)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, serviceInfo{
			Service:   serviceName,
			Version:   serviceVersion,
			Endpoints: Endpoints,
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, healthStatus{
			Status:    "healthy",
			Service:   serviceID,
			Timestamp: now().UTC().Format(time.RFC3339),
		})
	})
	r.Options("/*", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, struct{}{})
	})

	if params.CustomerHandler != nil {
		params.CustomerHandler.MountRoutes(r)
	}
	if params.RiskHandler != nil {
		params.RiskHandler.MountRoutes(r)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
