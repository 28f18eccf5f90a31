package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snipvault/snipvault/internal/bootstrap"
	"github.com/snipvault/snipvault/internal/config"
	"github.com/snipvault/snipvault/internal/core/ports"
	"github.com/snipvault/snipvault/internal/observability/metrics"
)

const processTimeout = 2 * time.Minute

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, "worker", cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsMux(workerMetrics),
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_failed", "error", err)
		}
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject, "group", cfg.NATSQueueGroup)
	err = app.Queue.SubscribeCaptureCreated(ctx, func(handlerCtx context.Context, captureID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
		defer cancel()

		observeQueueLag(processCtx, app.Captures, workerMetrics, captureID)

		start := time.Now()
		workerMetrics.StartCapture()
		placement, err := app.ProcessUC.ProcessByID(processCtx, captureID)
		workerMetrics.FinishCapture("worker", time.Since(start), err)
		if err != nil {
			return err
		}

		workerMetrics.RecordPlacement("worker", string(placement.Decision))
		workerMetrics.ObserveOCRConfidence("worker", placement.OCRConfidence)
		return nil
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("worker_metrics_shutdown_failed", "error", err)
	}
}

func metricsMux(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// observeQueueLag reads the capture's upload time to measure how long it sat
// in the queue. A failed read only costs the observation.
func observeQueueLag(ctx context.Context, captures ports.CaptureRepository, m *metrics.WorkerMetrics, captureID string) {
	capture, err := captures.GetByID(ctx, captureID)
	if err != nil {
		return
	}
	m.ObserveQueueLag("worker", time.Since(capture.CreatedAt))
}
