package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

// DefaultRankingLimit is the number of ranking rows returned without ?limit.
const DefaultRankingLimit = 10

// ReportProvider returns the report of the last successful run, or nil.
type ReportProvider interface {
	LatestReport() *domain.Report
}

// Server exposes health, readiness, metrics and ranking HTTP endpoints.
type Server struct {
	httpServer *http.Server
	reports    ReportProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /ranking routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, reports ReportProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports: reports,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /ranking", s.handleRanking)

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

// RankingResponse is the body of GET /ranking.
type RankingResponse struct {
	RunID       string                  `json:"run_id"`
	EvaluatedAt time.Time               `json:"evaluated_at"`
	Total       int                     `json:"total"`
	Ranking     []domain.ScoredLocation `json:"ranking"`
	Selection   domain.Selection        `json:"selection"`
	Issues      []domain.Issue          `json:"issues"`
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	limit := DefaultRankingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	report := s.reports.LatestReport()
	if report == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no ranking available yet"})
		return
	}

	resp := RankingResponse{
		RunID:       report.RunID,
		EvaluatedAt: report.EvaluatedAt,
		Total:       len(report.Ranking),
		Ranking:     report.Top(limit),
		Selection:   report.Selection,
		Issues:      report.Issues,
	}
	if resp.Ranking == nil {
		resp.Ranking = []domain.ScoredLocation{}
	}
	if resp.Issues == nil {
		resp.Issues = []domain.Issue{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
