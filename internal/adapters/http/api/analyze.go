package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/sentiboard/internal/adapters/source"
	service "github.com/okian/sentiboard/internal/app"
	"github.com/okian/sentiboard/internal/domain/aggregate"
	"github.com/okian/sentiboard/internal/domain/types"
	"github.com/okian/sentiboard/pkg/logger"
)

// maxBodyBytes bounds the POST /analyze body.
const maxBodyBytes = 1 << 16

// AnalyzeDependencies defines the interface for running analyses.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, req service.AnalyzeRequest) (service.Analysis, error)
}

// AnalyzeHandler handles analyze requests.
type AnalyzeHandler struct {
	deps   AnalyzeDependencies
	logger logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, l logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, logger: l}
}

// HandleAnalyze handles POST /analyze requests. An empty body analyzes the
// default term.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req types.AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	a, err := h.deps.Analyze(r.Context(), service.AnalyzeRequest{
		SearchTerm: req.SearchTerm,
		Count:      req.Count,
		Source:     req.Source,
	})
	if err != nil {
		status, code, apiErr := classifyAnalyzeError(op, err)
		h.fail(w, r, status, code, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, types.NewSummaryResponse(a.ID, a.SearchTerm, a.Source, a.Summary, a.CreatedAt))
}

func classifyAnalyzeError(op string, err error) (int, string, error) {
	switch {
	case errors.Is(err, service.ErrInvalidCount), errors.Is(err, service.ErrUnknownSource):
		return http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, aggregate.ErrEmptyBatch):
		return http.StatusUnprocessableEntity, "no_data", WrapKind(op, ErrNoData, err)
	case errors.Is(err, source.ErrDatasetNotFound):
		return http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err)
	default:
		return http.StatusInternalServerError, "internal_error", Wrap(op, err)
	}
}

func (h *AnalyzeHandler) fail(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	logRequestError(h.logger, r, err)
	writeError(w, status, code, err)
}

// logRequestError logs client mistakes at warn and everything else at error.
func logRequestError(l logger.Logger, r *http.Request, err error) {
	fields := []logger.Field{
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.Error(err),
	}
	if isClientError(err) {
		l.Warn(r.Context(), "request rejected", fields...)
		return
	}
	l.Error(r.Context(), "request failed", fields...)
}
