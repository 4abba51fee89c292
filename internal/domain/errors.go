package domain

import (
	"errors"
	"fmt"
)

// Error kinds reported by the remote API client. Match with errors.Is.
var (
	// ErrInvalidConfiguration indicates the endpoint URL could not be built
	ErrInvalidConfiguration = errors.New("invalid URL configuration")

	// ErrEmptyResponse indicates the server answered without a body
	ErrEmptyResponse = errors.New("no data received from server")

	// ErrDecodeFailure indicates the response body did not match the expected shape
	ErrDecodeFailure = errors.New("failed to decode response")

	// ErrServerError indicates a non-2xx HTTP status
	ErrServerError = errors.New("server error")

	// ErrNoConnectivity indicates the network is unreachable
	ErrNoConnectivity = errors.New("no internet connection")

	// ErrUnclassified wraps any other transport failure
	ErrUnclassified = errors.New("an unexpected error occurred")
)

// APIError carries the kind of a remote failure plus its detail.
type APIError struct {
	Kind       error // One of the Err* kinds above
	StatusCode int   // Set for ErrServerError
	Err        error // Underlying cause, if any
}

// Error implements the error interface
func (e *APIError) Error() string {
	switch e.Kind {
	case ErrServerError:
		return fmt.Sprintf("Server error with status code: %d", e.StatusCode)
	case ErrNoConnectivity:
		return "No internet connection. Showing cached data."
	case ErrDecodeFailure, ErrUnclassified:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind.Error(), e.Err)
		}
	}
	return e.Kind.Error()
}

// Is matches the error kind so callers can write errors.Is(err, ErrNoConnectivity).
func (e *APIError) Is(target error) bool {
	return e.Kind == target
}

// Unwrap returns the underlying cause
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewServerError builds an APIError for a non-2xx status
func NewServerError(status int) *APIError {
	return &APIError{Kind: ErrServerError, StatusCode: status}
}

// NewDecodeError builds an APIError for a body that failed to decode
func NewDecodeError(cause error) *APIError {
	return &APIError{Kind: ErrDecodeFailure, Err: cause}
}

// NewConnectivityError builds an APIError for an unreachable network
func NewConnectivityError(cause error) *APIError {
	return &APIError{Kind: ErrNoConnectivity, Err: cause}
}

// NewUnclassifiedError builds an APIError for any other transport failure
func NewUnclassifiedError(cause error) *APIError {
	return &APIError{Kind: ErrUnclassified, Err: cause}
}

// IsNoConnectivity reports whether err is the offline condition that permits cache fallback.
func IsNoConnectivity(err error) bool {
	return errors.Is(err, ErrNoConnectivity)
}
