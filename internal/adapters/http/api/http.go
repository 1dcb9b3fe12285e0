// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/okian/sentiboard/internal/domain/types"
	"github.com/okian/sentiboard/pkg/logger"
)

// noDataMessage is shown by the dashboard when an analysis has nothing to plot.
const noDataMessage = "No data available"

// Dependencies required by HTTP handlers.
type Dependencies interface {
	AnalyzeDependencies
	TimelineDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analyzeHandler  *AnalyzeHandler
	timelineHandler *TimelineHandler

	limiter *rate.Limiter
	logger  logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit guards POST /analyze with a token bucket of rps tokens per
// second and the given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.analyzeHandler = NewAnalyzeHandler(deps, s.logger)
	s.timelineHandler = NewTimelineHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("api: nil mux")
	}
	analyze := s.analyzeHandler.HandleAnalyze
	if s.limiter != nil {
		analyze = RateLimitMiddleware(analyze, s.limiter, "analyze")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyze", RequestIDMiddleware(MetricsMiddleware(analyze, "analyze")))
	mux.HandleFunc("/get_timeline_data", RequestIDMiddleware(MetricsMiddleware(s.timelineHandler.HandleTimeline, "timeline")))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the client-facing kind of err. The cause is never
// sent; handlers log it.
func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = clientMessage(kindOf(err))
	}
	writeJSON(w, status, types.ErrorResponse{Success: false, Code: code, Error: msg})
}

// clientMessage is the text sent for an error kind.
func clientMessage(kind error) string {
	if errors.Is(kind, ErrNoData) {
		return noDataMessage
	}
	return kind.Error()
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}

// isClientError reports whether err was caused by the request rather than the
// server.
func isClientError(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, ErrNoData) || errors.Is(err, ErrNotFound)
}
