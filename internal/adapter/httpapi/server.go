// Package httpapi exposes the dashboard's query surface over HTTP: filter
// options, filtered county data, aggregations, the optional statistical
// routines, and the CSV export, plus health and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/nri-explorer/internal/analysis"
	"github.com/couchcryptid/nri-explorer/internal/dataset"
	"github.com/couchcryptid/nri-explorer/internal/domain"
	"github.com/couchcryptid/nri-explorer/internal/export"
	"github.com/couchcryptid/nri-explorer/internal/observability"
)

// defaultClusterK matches the dashboard's default cluster count.
const defaultClusterK = 4

// Server serves the query API over a dataset store.
type Server struct {
	httpServer     *http.Server
	store          *dataset.Store
	exportFilename string
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewServer creates the API server. All /api/v1 routes answer 503 with the
// load error until the store holds a snapshot.
func NewServer(addr string, store *dataset.Store, exportFilename string, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:          store,
		exportFilename: exportFilename,
		logger:         logger,
		metrics:        metrics,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/options", s.instrument("options", s.handleOptions))
	mux.HandleFunc("GET /api/v1/counties", s.instrument("counties", s.handleCounties))
	mux.HandleFunc("GET /api/v1/choropleth", s.instrument("choropleth", s.handleChoropleth))
	mux.HandleFunc("GET /api/v1/summary", s.instrument("summary", s.handleSummary))
	mux.HandleFunc("GET /api/v1/scatter", s.instrument("scatter", s.handleScatter))
	mux.HandleFunc("GET /api/v1/regression", s.instrument("regression", s.handleRegression))
	mux.HandleFunc("GET /api/v1/clusters", s.instrument("clusters", s.handleClusters))
	mux.HandleFunc("GET /api/v1/export", s.instrument("export", s.handleExport))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// instrument wraps an API handler with a request ID, access logging, and
// per-endpoint metrics.
func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		h(w, r)

		s.metrics.QueryRequests.WithLabelValues(endpoint).Inc()
		s.metrics.QueryDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		s.logger.Info("request handled",
			"endpoint", endpoint,
			"request_id", requestID,
			"query", r.URL.RawQuery,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// snapshot returns the loaded records, or writes the empty-state error
// response and reports false.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) ([]domain.CountyRecord, bool) {
	records, ok := s.store.Snapshot()
	if !ok {
		err := s.store.CheckReadiness(r.Context())
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("dataset unavailable: %v", err))
		return nil, false
	}
	return records, true
}

// filterFromQuery parses the comma-separated region/state/county selections.
func filterFromQuery(r *http.Request) domain.Filter {
	return domain.Filter{
		Regions:  splitParam(r.URL.Query().Get("region")),
		States:   splitParam(r.URL.Query().Get("state")),
		Counties: splitParam(r.URL.Query().Get("county")),
	}
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	records, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, domain.Options(records, filterFromQuery(r)))
}

func (s *Server) handleCounties(w http.ResponseWriter, r *http.Request) {
	records, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	filtered := filterFromQuery(r).Apply(records)
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":    len(filtered),
		"records": filtered,
	})
}

func (s *Server) handleChoropleth(w http.ResponseWriter, r *http.Request) {
	records, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	filtered := filterFromQuery(r).Apply(records)
	writeJSON(w, http.StatusOK, map[string]any{
		"points": domain.ChoroplethPoints(filtered),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	by, err := domain.ParseGroupBy(r.URL.Query().Get("group_by"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	filtered := filterFromQuery(r).Apply(records)
	writeJSON(w, http.StatusOK, map[string]any{
		"group_by": by,
		"rows":     len(filtered),
		"groups":   domain.MeanRiskByGroup(filtered, by),
	})
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	records, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	filtered := filterFromQuery(r).Apply(records)
	excludeOutliers := r.URL.Query().Get("exclude_outliers") == "true"
	points := domain.ScatterPoints(filtered, excludeOutliers)
	writeJSON(w, http.StatusOK, map[string]any{
		"points":   points,
		"excluded": len(filtered) - len(points),
	})
}

func (s *Server) handleRegression(w http.ResponseWriter, r *http.Request) {
	predictor, err := analysis.ParsePredictor(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	filtered := filterFromQuery(r).Apply(records)
	reg, err := analysis.Fit(filtered, predictor)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	k := defaultClusterK
	if v := r.URL.Query().Get("k"); v != "" {
		var err error
		if k, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid k %q", v))
			return
		}
	}
	records, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	filtered := filterFromQuery(r).Apply(records)
	result, err := analysis.KMeans(filtered, k)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	filtered := filterFromQuery(r).Apply(records)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.exportFilename))
	if err := export.WriteCSV(w, filtered); err != nil {
		// Headers are already sent; all we can do is log.
		s.logger.Error("export write failed", "error", err)
		return
	}
	s.metrics.ExportRows.Observe(float64(len(filtered)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
