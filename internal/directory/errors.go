package directory

import (
	"errors"
	"fmt"
)

// Errors returned by directory implementations.
var (
	// ErrPublicKeyNotFound indicates the directory has no key for the identity.
	ErrPublicKeyNotFound = errors.New("public key not found")
	// ErrUnauthorized indicates the token was missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited indicates the rate limit was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrInvalidPublicKey indicates a published key is not 32 decimal bytes.
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// APIError represents an HTTP error from the directory.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("directory error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("directory error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("directory error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("directory error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrUnauthorized
	case 404:
		return target == ErrPublicKeyNotFound
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
