// Package retry decorates the user directory with a backoff policy.
//
// The collector's control flow stays untouched: retries happen at the
// port boundary, per page request. Transient network failures back off
// exponentially; rate limits sleep until the quota resets when the error
// exposes a reset time. Authentication and not-found errors are never
// retried.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
	"github.com/oss-atlas/ghcensus-cli/internal/logger"
)

// Ensure Directory implements the port.
var _ driven.UserDirectory = (*Directory)(nil)

const (
	// DefaultMaxAttempts bounds the total tries per page request.
	DefaultMaxAttempts = 4

	// DefaultBaseDelay is the first backoff step; it doubles per attempt.
	DefaultBaseDelay = time.Second

	// DefaultMaxDelay caps a single backoff sleep.
	DefaultMaxDelay = 30 * time.Second
)

// retryAfterError is satisfied by errors carrying a quota reset time.
type retryAfterError interface {
	error
	RetryAfter() time.Time
}

// Directory wraps another UserDirectory with retries.
type Directory struct {
	inner       driven.UserDirectory
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration

	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures the decorator.
type Option func(*Directory)

// WithMaxAttempts overrides the attempt bound.
func WithMaxAttempts(n int) Option {
	return func(d *Directory) { d.maxAttempts = n }
}

// WithDelays overrides the backoff base and cap.
func WithDelays(base, maxDelay time.Duration) Option {
	return func(d *Directory) {
		d.baseDelay = base
		d.maxDelay = maxDelay
	}
}

// NewDirectory wraps inner with the default policy.
func NewDirectory(inner driven.UserDirectory, opts ...Option) *Directory {
	d := &Directory{
		inner:       inner,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		maxDelay:    DefaultMaxDelay,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SearchUsers retries the inner page request per the policy.
func (d *Directory) SearchUsers(ctx context.Context, q driven.UserSearchQuery, page int) (*driven.UserPage, error) {
	var out *driven.UserPage
	err := d.do(ctx, "search users", func() error {
		var err error
		out, err = d.inner.SearchUsers(ctx, q, page)
		return err
	})
	return out, err
}

// ListRepositories retries the inner page request per the policy.
func (d *Directory) ListRepositories(ctx context.Context, login string, page int) (*driven.RepoPage, error) {
	var out *driven.RepoPage
	err := d.do(ctx, "list repositories", func() error {
		var err error
		out, err = d.inner.ListRepositories(ctx, login, page)
		return err
	})
	return out, err
}

// do runs fn up to maxAttempts times, sleeping between failures.
func (d *Directory) do(ctx context.Context, operation string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < d.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := d.sleep(ctx, d.delayFor(lastErr, attempt)); err != nil {
				return err
			}
			logger.Debug("Retrying %s (attempt %d/%d)", operation, attempt+1, d.maxAttempts)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// delayFor picks the sleep before the given attempt (1-based).
func (d *Directory) delayFor(err error, attempt int) time.Duration {
	var ra retryAfterError
	if errors.As(err, &ra) {
		if wait := time.Until(ra.RetryAfter()); wait > 0 {
			return wait
		}
	}

	delay := d.baseDelay << (attempt - 1)
	if delay > d.maxDelay {
		delay = d.maxDelay
	}
	return delay
}

// retryable reports whether the policy retries err at all.
func retryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrTransientNetwork):
		return true
	case errors.Is(err, domain.ErrRateLimited):
		return true
	default:
		return false
	}
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
