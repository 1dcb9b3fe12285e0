package source

import "errors"

// Sentinel kinds for source errors.
var (
	// ErrMalformedRecord marks a loaded row that had to be defaulted or was rejected.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrDatasetNotFound is returned when the configured CSV file does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrMissingTextColumn is returned when a CSV header has no tweet/text column.
	ErrMissingTextColumn = errors.New("dataset has no text column")
	ErrInvalidCount      = errors.New("count must not be negative")
	ErrInvalidWeights    = errors.New("sentiment weights must be non-negative with a positive sum")
)
