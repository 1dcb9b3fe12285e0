package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limited")
	ErrNoData      = errors.New("no data available")
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
)

// opError records the handler operation, the error kind the client sees and
// the underlying cause that only reaches the logs.
type opError struct {
	op    string
	kind  error
	cause error
}

func (e *opError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.cause)
}

// Is matches the kind so callers can test with errors.Is(err, ErrBadRequest).
func (e *opError) Is(target error) bool { return e.kind == target }

func (e *opError) Unwrap() error { return e.cause }

// NewKind builds an error of the given kind without a cause.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// WrapKind attaches a kind to cause.
func WrapKind(op string, kind, cause error) error {
	return &opError{op: op, kind: kind, cause: cause}
}

// Wrap classifies cause as an internal error.
func Wrap(op string, cause error) error {
	return WrapKind(op, ErrInternal, cause)
}

// kindOf extracts the client-facing kind, defaulting to ErrInternal.
func kindOf(err error) error {
	var oe *opError
	if errors.As(err, &oe) {
		return oe.kind
	}
	return ErrInternal
}
