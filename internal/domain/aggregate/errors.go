package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrEmptyBatch         = errors.New("empty batch")
	ErrInvalidBucketWidth = errors.New("bucket width must be positive")
)
