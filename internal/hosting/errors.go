package hosting

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the host, surfaced with the provider's
// own message. 429 and 5xx responses are retryable; other 4xx are not.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("host api %s: %s (%s)", e.Status, e.Message, e.Endpoint)
	}
	return fmt.Sprintf("host api %s (%s)", e.Status, e.Endpoint)
}

// Retryable reports whether retrying the request can succeed.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NotFound reports whether the resource does not exist remotely.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// NetworkError is a transport-level failure before any response arrived.
// Always retryable.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable classifies an error under the deploy retry policy: network
// errors and retryable API errors qualify.
func IsRetryable(err error) bool {
	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
