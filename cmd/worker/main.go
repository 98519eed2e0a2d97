package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/customer-profile/internal/app"
	"github.com/odyssey-erp/customer-profile/internal/customers"
	jobmetrics "github.com/odyssey-erp/customer-profile/internal/jobs"
	"github.com/odyssey-erp/customer-profile/internal/observability"
	"github.com/odyssey-erp/customer-profile/internal/risk"
	"github.com/odyssey-erp/customer-profile/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	if !cfg.QueueEnabled() {
		return errors.New("REDIS_ADDR must be set to run the worker")
	}
	if cfg.StoreDriver == app.StoreMemory {
		logger.Warn("worker uses its own in-memory store; updates made through the API are not visible")
	}

	repo, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	metrics := observability.NewMetrics()
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	reviewJob, sweepJob := newJobs(repo, jobMetrics, logger)

	sweepTask, err := jobs.NewRiskSweepTask(jobs.RiskSweepPayload{})
	if err != nil {
		return fmt.Errorf("build sweep task: %w", err)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:       asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:          logger,
		Concurrency:     cfg.WorkerConcurrency,
		ShutdownTimeout: cfg.AppShutdownTimeout,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRiskReview, Handler: reviewJob.Handle},
			{Type: jobs.TaskRiskSweep, Handler: sweepJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.RiskSweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3), asynq.Timeout(10 * time.Minute)}},
		},
	})
	if err != nil {
		return fmt.Errorf("init worker: %w", err)
	}
	if !worker.Scheduled() {
		logger.Info("RISK_SWEEP_CRON empty, nightly sweep disabled")
	}

	metricsServer := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting worker", slog.Int("concurrency", cfg.WorkerConcurrency), slog.String("sweep_cron", cfg.RiskSweepCron))
		return worker.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("serving worker metrics", slog.String("addr", cfg.WorkerMetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppShutdownTimeout)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newJobs builds the task handlers. The risk service gets no API metrics:
// re-scores are counted in profile_risk_reviews_total, while
// profile_risk_assessments_total tracks API assessments only.
func newJobs(repo customers.Repository, jobMetrics *jobmetrics.Metrics, logger *slog.Logger) (*jobs.RiskReviewJob, *jobs.RiskSweepJob) {
	customerService := customers.NewService(repo, customers.ServiceConfig{Logger: logger})
	riskService := risk.NewService(customerService, risk.ServiceConfig{Logger: logger})
	return jobs.NewRiskReviewJob(riskService, logger, jobMetrics),
		jobs.NewRiskSweepJob(customerService, riskService, logger, jobMetrics)
}
