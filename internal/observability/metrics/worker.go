package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec
	ocrConfidence   *prometheus.HistogramVec
	placementTotal  *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "worker",
			Name:      "capture_process_total",
			Help:      "Total processed captures by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snipvault",
			Subsystem: "worker",
			Name:      "capture_process_duration_seconds",
			Help:      "Capture processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "snipvault",
			Subsystem: "worker",
			Name:      "capture_process_in_flight",
			Help:      "Number of in-flight capture processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snipvault",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between capture upload and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	ocrConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snipvault",
			Subsystem: "worker",
			Name:      "ocr_confidence",
			Help:      "Confidence reported by the text extraction engine, 0 to 100.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100},
		},
		[]string{"service"},
	)
	placementTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "worker",
			Name:      "placement_total",
			Help:      "Placement decisions for extracted snippets.",
		},
		[]string{"service", "decision"},
	)

	registry.MustRegister(processTotal, processDuration, processInFlight, queueLag, ocrConfidence, placementTotal)

	return &WorkerMetrics{
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		queueLag:        queueLag,
		ocrConfidence:   ocrConfidence,
		placementTotal:  placementTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartCapture() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishCapture(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveOCRConfidence(service string, confidence float64) {
	if confidence < 0 || confidence > 100 {
		return
	}
	m.ocrConfidence.WithLabelValues(service).Observe(confidence)
}

func (m *WorkerMetrics) RecordPlacement(service, decision string) {
	m.placementTotal.WithLabelValues(service, decision).Inc()
}
