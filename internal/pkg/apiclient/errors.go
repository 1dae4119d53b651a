package apiclient

import (
	"errors"
	"fmt"
)

// Submission error taxonomy. The attendance queue treats exactly
// {ErrNoConnectivity, ErrTimeout} as transient; everything else is surfaced
// to the caller without enqueueing.
var (
	ErrNoConnectivity = errors.New("no network connectivity")
	ErrTimeout        = errors.New("request timed out")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("resource not found")
	ErrValidation     = errors.New("request rejected by validation")
	ErrEncoding       = errors.New("failed to encode request")
	ErrDecoding       = errors.New("failed to decode response")
	ErrNoData         = errors.New("response contained no data")
)

// ServerError is a 5xx (or envelope-level) failure reported by the backend.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsTransient reports whether err is a connectivity-class failure expected
// to succeed on retry with an unchanged payload.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNoConnectivity) || errors.Is(err, ErrTimeout)
}
