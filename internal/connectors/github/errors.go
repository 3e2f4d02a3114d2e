package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Is makes the error match domain.ErrRateLimited under errors.Is.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrRateLimited
}

// RetryAfter returns the quota reset time. Retry decorators use it to
// sleep until the limit clears instead of backing off blindly.
func (e *RateLimitError) RetryAfter() time.Time {
	return e.ResetAt
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Is maps API status codes onto the domain taxonomy so callers can use
// errors.Is against domain sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domain.ErrAuthInvalid:
		return e.StatusCode == http.StatusUnauthorized
	default:
		return false
	}
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
