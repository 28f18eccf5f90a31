package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	classifyDetectionsTotal *prometheus.CounterVec
	similarityLookupsTotal  *prometheus.CounterVec
	similarityMatchHitTotal *prometheus.CounterVec
	similarityNoMatchTotal  *prometheus.CounterVec
	similarityMatches       *prometheus.HistogramVec
	organizePlansTotal      *prometheus.CounterVec
	organizePlanConfidence  *prometheus.HistogramVec
	organizeRunsTotal       *prometheus.CounterVec
	organizeActionsTotal    *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snipvault",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "snipvault",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	classifyDetectionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "classify",
			Name:      "detections_total",
			Help:      "Total classifications by detected language.",
		},
		[]string{"service", "language"},
	)
	similarityLookupsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "similarity",
			Name:      "lookups_total",
			Help:      "Total similarity lookups.",
		},
		[]string{"service", "endpoint"},
	)
	similarityMatchHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "similarity",
			Name:      "match_hit_total",
			Help:      "Total similarity lookups with at least one match.",
		},
		[]string{"service", "endpoint"},
	)
	similarityNoMatchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "similarity",
			Name:      "no_match_total",
			Help:      "Total similarity lookups without matches.",
		},
		[]string{"service", "endpoint"},
	)
	similarityMatches := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snipvault",
			Subsystem: "similarity",
			Name:      "matches",
			Help:      "Distribution of matches per similarity lookup.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	organizePlansTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "organize",
			Name:      "plans_total",
			Help:      "Total generated organization plans by strategy.",
		},
		[]string{"service", "strategy"},
	)
	organizePlanConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snipvault",
			Subsystem: "organize",
			Name:      "plan_confidence",
			Help:      "Distribution of plan confidence by strategy.",
			Buckets:   []float64{0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service", "strategy"},
	)
	organizeRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "organize",
			Name:      "runs_total",
			Help:      "Total plan executions by outcome.",
		},
		[]string{"service", "status"},
	)
	organizeActionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snipvault",
			Subsystem: "organize",
			Name:      "actions_total",
			Help:      "Total executed plan actions by type and status.",
		},
		[]string{"service", "type", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		classifyDetectionsTotal,
		similarityLookupsTotal,
		similarityMatchHitTotal,
		similarityNoMatchTotal,
		similarityMatches,
		organizePlansTotal,
		organizePlanConfidence,
		organizeRunsTotal,
		organizeActionsTotal,
	)

	return &HTTPServerMetrics{
		registry:                registry,
		requestTotal:            requestTotal,
		requestDuration:         requestDuration,
		requestInFlight:         requestInFlight,
		classifyDetectionsTotal: classifyDetectionsTotal,
		similarityLookupsTotal:  similarityLookupsTotal,
		similarityMatchHitTotal: similarityMatchHitTotal,
		similarityNoMatchTotal:  similarityNoMatchTotal,
		similarityMatches:       similarityMatches,
		organizePlansTotal:      organizePlansTotal,
		organizePlanConfidence:  organizePlanConfidence,
		organizeRunsTotal:       organizeRunsTotal,
		organizeActionsTotal:    organizeActionsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/captures/"):
		return "/v1/captures/{capture_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordClassification(service, language string) {
	if language == "" {
		language = "unknown"
	}
	m.classifyDetectionsTotal.WithLabelValues(service, language).Inc()
}

func (m *HTTPServerMetrics) RecordSimilarityLookup(service, endpoint string, matchCount int) {
	m.similarityLookupsTotal.WithLabelValues(service, endpoint).Inc()
	m.similarityMatches.WithLabelValues(service, endpoint).Observe(float64(matchCount))

	if matchCount > 0 {
		m.similarityMatchHitTotal.WithLabelValues(service, endpoint).Inc()
		return
	}
	m.similarityNoMatchTotal.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordPlanGenerated(service, strategy string, confidence float64) {
	if strategy == "" {
		strategy = "unknown"
	}
	m.organizePlansTotal.WithLabelValues(service, strategy).Inc()
	m.organizePlanConfidence.WithLabelValues(service, strategy).Observe(confidence)
}

func (m *HTTPServerMetrics) RecordOrganizeRun(service string, success bool) {
	status := "success"
	if !success {
		status = "degraded"
	}
	m.organizeRunsTotal.WithLabelValues(service, status).Inc()
}

func (m *HTTPServerMetrics) RecordActionOutcome(service, actionType, status string) {
	if actionType == "" {
		actionType = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	m.organizeActionsTotal.WithLabelValues(service, actionType, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
