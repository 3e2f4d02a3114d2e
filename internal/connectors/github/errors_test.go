package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
)

func TestAPIError_MapsToDomainSentinels(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound, Message: "Not Found"}
	assert.ErrorIs(t, notFound, domain.ErrNotFound)
	assert.NotErrorIs(t, notFound, domain.ErrAuthInvalid)

	unauthorized := &APIError{StatusCode: http.StatusUnauthorized, Message: "Bad credentials"}
	assert.ErrorIs(t, unauthorized, domain.ErrAuthInvalid)
	assert.NotErrorIs(t, unauthorized, domain.ErrNotFound)
}

func TestRateLimitError_MapsToDomainSentinel(t *testing.T) {
	err := &RateLimitError{ResetAt: time.Now().Add(time.Hour)}

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestRateLimitError_SurvivesWrapping(t *testing.T) {
	inner := &RateLimitError{ResetAt: time.Now()}
	wrapped := fmt.Errorf("search users page 3: %w", inner)

	assert.ErrorIs(t, wrapped, domain.ErrRateLimited)

	var rle *RateLimitError
	assert.True(t, errors.As(wrapped, &rle))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsNotFound(&APIError{StatusCode: http.StatusInternalServerError}))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(fmt.Errorf("wrapped: %w", errTimeout{})))
	assert.False(t, isTransient(errors.New("boom")))
}

type errTimeout struct{}

func (errTimeout) Error() string   { return "i/o timeout" }
func (errTimeout) Timeout() bool   { return true }
func (errTimeout) Temporary() bool { return true }
