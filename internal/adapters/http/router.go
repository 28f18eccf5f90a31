package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/snipvault/snipvault/internal/config"
	"github.com/snipvault/snipvault/internal/core/ports"
	"github.com/snipvault/snipvault/internal/observability/metrics"
)

const (
	ownerIDHeader    = "X-Owner-Id"
	backpressureWait = 250 * time.Millisecond
)

type Router struct {
	cfg       config.Config
	ingest    ports.CaptureIngestor
	captures  ports.CaptureReader
	analyzer  ports.ContentAnalyzer
	organizer ports.LibraryOrganizer
	library   ports.LibraryReader
	metrics   *metrics.HTTPServerMetrics
}

// NewRouter wires the inbound ports behind the HTTP surface. serverMetrics
// may be nil, which disables the /metrics endpoint and instrumentation.
func NewRouter(
	cfg config.Config,
	ingest ports.CaptureIngestor,
	captures ports.CaptureReader,
	analyzer ports.ContentAnalyzer,
	organizer ports.LibraryOrganizer,
	library ports.LibraryReader,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		ingest:    ingest,
		captures:  captures,
		analyzer:  analyzer,
		organizer: organizer,
		library:   library,
		metrics:   serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/captures", rt.uploadCapture)
	mux.HandleFunc("/v1/captures/", rt.getCaptureByID)
	mux.HandleFunc("/v1/classify", rt.classifyText)
	mux.HandleFunc("/v1/names", rt.proposeName)
	mux.HandleFunc("/v1/similar", rt.findSimilar)
	mux.HandleFunc("/v1/library", rt.listLibrary)
	mux.HandleFunc("/v1/library/search", rt.searchLibrary)
	mux.HandleFunc("/v1/organization/analyze", rt.analyzeOrganization)
	mux.HandleFunc("/v1/organization/auto", rt.autoOrganize)
	mux.HandleFunc("/v1/organization/execute", rt.executePlan)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if validator, err := newOpenAPIValidator(); err == nil {
		handler = validator.middleware(handler)
	} else {
		slog.Error("openapi_validation_disabled", "error", err)
	}
	handler = bodyLimitMiddleware(handler, rt.cfg.APIMaxUploadBytes)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInflight, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ownerFromRequest resolves the acting owner from the X-Owner-Id header,
// falling back to the owner_id query parameter. Handlers pass the result
// through unchecked; owner validation lives in the use cases.
func ownerFromRequest(r *http.Request) string {
	if owner := strings.TrimSpace(r.Header.Get(ownerIDHeader)); owner != "" {
		return owner
	}
	return strings.TrimSpace(r.URL.Query().Get("owner_id"))
}

// resolveOwner prefers the owner carried in the request body over the
// header and query fallbacks.
func resolveOwner(bodyOwner string, r *http.Request) string {
	if owner := strings.TrimSpace(bodyOwner); owner != "" {
		return owner
	}
	return ownerFromRequest(r)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
