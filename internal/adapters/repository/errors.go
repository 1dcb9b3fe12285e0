package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrNotFound     = errors.New("analysis not found")
	ErrEmpty        = errors.New("no analyses stored")
	ErrInvalidBatch = errors.New("batch must have an id")
)
