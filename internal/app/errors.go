package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrNoData           = errors.New("no data available")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrUnknownSource    = errors.New("unknown source")
	ErrInvalidCount     = errors.New("invalid tweet count")
)
