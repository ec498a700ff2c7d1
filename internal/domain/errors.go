package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrMalformedDocument = errors.New("malformed gpx document")

	ErrRouteProviderUnavailable = errors.New("route provider unavailable")
	ErrRouteProviderRejected    = errors.New("route provider rejected request")
	ErrRouteProviderParse       = errors.New("route provider response could not be parsed")
)

// ValidationErrorf builds an error matching ErrValidation.
func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ProviderStatusError is a non-2xx answer from an external provider.
// It matches ErrRouteProviderRejected.
type ProviderStatusError struct {
	Code int
	Body string
}

func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (e *ProviderStatusError) Unwrap() error { return ErrRouteProviderRejected }
