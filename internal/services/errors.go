package services

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrMissingAPIKey    = errors.New("missing API key")
	ErrUpstream         = errors.New("upstream model error")
	ErrInvalidModelJSON = errors.New("model did not return valid JSON")
	ErrInvariant        = errors.New("internal invariant violated")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file too large")
	ErrNoText           = errors.New("no text content found")
)

// UpstreamError describes a failed call to the model provider. Status is the
// provider's HTTP status when it answered, 502 when it could not be reached,
// and 500 when no call was possible (missing credential).
type UpstreamError struct {
	Status  int
	Message string
	Details map[string]any
	Err     error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("upstream error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream error (%d)", e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// HTTPStatusCode reports the status to forward to our own caller.
func (e *UpstreamError) HTTPStatusCode() int {
	if e == nil || e.Status == 0 {
		return http.StatusBadGateway
	}
	return e.Status
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
