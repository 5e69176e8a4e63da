package crossref

import (
	"errors"
	"fmt"
)

// Common errors returned by the Crossref client.
var (
	// ErrNotFound indicates no work is registered for the DOI.
	ErrNotFound = errors.New("DOI not found in Crossref")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("Crossref rate limit exceeded")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("Crossref API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Crossref")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Crossref")

	// ErrEmptyDOI indicates a lookup was attempted without a DOI.
	ErrEmptyDOI = errors.New("DOI is required")
)

// APIError represents a non-success HTTP status from the Crossref API.
type APIError struct {
	StatusCode int
	DOI        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Crossref API error (status %d) for %s", e.StatusCode, e.DOI)
}

// Is lets errors.Is match the APIError against ErrAPIError.
func (e *APIError) Is(target error) bool { return target == ErrAPIError }

// IsNotFound returns true if the error indicates the DOI is unknown.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
