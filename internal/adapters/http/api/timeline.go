package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	service "github.com/okian/sentiboard/internal/app"
	"github.com/okian/sentiboard/internal/domain/aggregate"
	"github.com/okian/sentiboard/internal/domain/types"
	"github.com/okian/sentiboard/pkg/logger"
)

// TimelineDependencies defines the interface for timeline reads.
type TimelineDependencies interface {
	Timeline(ctx context.Context, analysisID string, width time.Duration) (aggregate.Series, error)
}

// TimelineHandler handles timeline requests.
type TimelineHandler struct {
	deps   TimelineDependencies
	logger logger.Logger
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(deps TimelineDependencies, l logger.Logger) *TimelineHandler {
	return &TimelineHandler{deps: deps, logger: l}
}

// HandleTimeline handles GET /get_timeline_data requests. The optional
// analysis_id selects a stored analysis (latest by default) and bucket sets
// the interval width as a Go duration (1h by default).
func (h *TimelineHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.timeline"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	var width time.Duration
	if raw := q.Get("bucket"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			if err == nil {
				err = aggregate.ErrInvalidBucketWidth
			}
			h.fail(w, r, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		width = d
	}

	series, err := h.deps.Timeline(r.Context(), q.Get("analysis_id"), width)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoData),
			errors.Is(err, service.ErrAnalysisNotFound),
			errors.Is(err, aggregate.ErrEmptyBatch):
			h.fail(w, r, http.StatusNotFound, "no_data", WrapKind(op, ErrNoData, err))
		case errors.Is(err, aggregate.ErrInvalidBucketWidth):
			h.fail(w, r, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		default:
			h.fail(w, r, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}

	writeJSON(w, http.StatusOK, types.NewTimelineResponse(series))
}

func (h *TimelineHandler) fail(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	logRequestError(h.logger, r, err)
	writeError(w, status, code, err)
}
