package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
)

// flakyDirectory fails the first failures calls of each operation.
type flakyDirectory struct {
	failures int
	err      error

	searchCalls int
	listCalls   int
}

func (f *flakyDirectory) SearchUsers(_ context.Context, _ driven.UserSearchQuery, _ int) (*driven.UserPage, error) {
	f.searchCalls++
	if f.searchCalls <= f.failures {
		return nil, f.err
	}
	return &driven.UserPage{Users: []domain.UserProfile{{Login: "alice"}}}, nil
}

func (f *flakyDirectory) ListRepositories(_ context.Context, _ string, _ int) (*driven.RepoPage, error) {
	f.listCalls++
	if f.listCalls <= f.failures {
		return nil, f.err
	}
	return &driven.RepoPage{}, nil
}

// resetErr carries a quota reset time, like the connector's rate limit error.
type resetErr struct{ at time.Time }

func (e *resetErr) Error() string         { return "rate limited" }
func (e *resetErr) Is(target error) bool  { return target == domain.ErrRateLimited }
func (e *resetErr) RetryAfter() time.Time { return e.at }

func noSleep(d *Directory) *Directory {
	d.sleep = func(context.Context, time.Duration) error { return nil }
	return d
}

func TestDirectory_RetriesTransientFailures(t *testing.T) {
	inner := &flakyDirectory{failures: 2, err: fmt.Errorf("dial: %w", domain.ErrTransientNetwork)}
	d := noSleep(NewDirectory(inner))

	page, err := d.SearchUsers(context.Background(), driven.UserSearchQuery{}, 1)

	require.NoError(t, err)
	assert.Len(t, page.Users, 1)
	assert.Equal(t, 3, inner.searchCalls)
}

func TestDirectory_GivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flakyDirectory{failures: 10, err: fmt.Errorf("dial: %w", domain.ErrTransientNetwork)}
	d := noSleep(NewDirectory(inner, WithMaxAttempts(3)))

	_, err := d.SearchUsers(context.Background(), driven.UserSearchQuery{}, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
	assert.Equal(t, 3, inner.searchCalls)
}

func TestDirectory_DoesNotRetryAuthErrors(t *testing.T) {
	inner := &flakyDirectory{failures: 10, err: domain.ErrAuthInvalid}
	d := noSleep(NewDirectory(inner))

	_, err := d.SearchUsers(context.Background(), driven.UserSearchQuery{}, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.Equal(t, 1, inner.searchCalls)
}

func TestDirectory_DoesNotRetryNotFound(t *testing.T) {
	inner := &flakyDirectory{failures: 10, err: domain.ErrNotFound}
	d := noSleep(NewDirectory(inner))

	_, err := d.ListRepositories(context.Background(), "ghost", 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, inner.listCalls)
}

func TestDirectory_RateLimitSleepsUntilReset(t *testing.T) {
	reset := time.Now().Add(10 * time.Minute)
	inner := &flakyDirectory{failures: 1, err: &resetErr{at: reset}}

	var slept time.Duration
	d := NewDirectory(inner)
	d.sleep = func(_ context.Context, dur time.Duration) error {
		slept = dur
		return nil
	}

	_, err := d.ListRepositories(context.Background(), "alice", 1)

	require.NoError(t, err)
	assert.InDelta(t, (10 * time.Minute).Seconds(), slept.Seconds(), 5)
}

func TestDirectory_BackoffDoublesAndCaps(t *testing.T) {
	inner := &flakyDirectory{failures: 10, err: fmt.Errorf("dial: %w", domain.ErrTransientNetwork)}

	var delays []time.Duration
	d := NewDirectory(inner, WithMaxAttempts(5), WithDelays(time.Second, 3*time.Second))
	d.sleep = func(_ context.Context, dur time.Duration) error {
		delays = append(delays, dur)
		return nil
	}

	_, err := d.SearchUsers(context.Background(), driven.UserSearchQuery{}, 1)

	require.Error(t, err)
	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second,
	}, delays)
}

func TestDirectory_SleepCancellation(t *testing.T) {
	inner := &flakyDirectory{failures: 10, err: fmt.Errorf("dial: %w", domain.ErrTransientNetwork)}
	d := NewDirectory(inner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.SearchUsers(ctx, driven.UserSearchQuery{}, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.searchCalls)
}
