package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Catalog errors.
// None of these reach the user: clients log them and return no results.
var (
	// ErrUnavailable is returned when a backend is known to be unusable,
	// for example Kaggle without credentials.
	ErrUnavailable = errors.New("catalog: backend unavailable")

	// ErrMalformedResponse is returned when a backend answers with a body
	// that is not the JSON shape the client expects.
	ErrMalformedResponse = errors.New("catalog: malformed response")

	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("catalog: invalid proxy address format: expected host:port")

	// ErrDuplicateClient is returned when two registry entries share a name.
	ErrDuplicateClient = errors.New("catalog: duplicate client name")

	// ErrUnknownClient is returned when a selected name matches no client.
	ErrUnknownClient = errors.New("catalog: unknown client")

	// ErrNilClient is returned when a nil client is registered.
	ErrNilClient = errors.New("catalog: nil client")
)

// BackendError records which backend and operation failed.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx answer from a backend.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "rate limit exceeded"
	}
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// failureReason names the kind of failure for the search log.
func failureReason(err error) string {
	switch {
	case IsRateLimited(err):
		return "rate_limited"
	case IsUnauthorized(err):
		return "unauthorized"
	case IsNotFound(err):
		return "not_found"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
