package driving

import (
	"context"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
)

// Progress is a point-in-time view of a running collection.
type Progress struct {
	// Users is the number of records emitted so far.
	Users int

	// Repositories is the total repository count so far.
	Repositories int

	// CurrentUser is the login being fetched, empty between users.
	CurrentUser string
}

// Collector runs a bounded two-level paginated collection.
type Collector interface {
	// Collect streams (user, repositories) records in directory-search
	// order. The record channel is closed on exhaustion, cancellation or
	// failure; at most one error is sent on the error channel. Records
	// already emitted remain valid when an error follows them.
	Collect(ctx context.Context, params domain.CollectionParams) (<-chan domain.UserRecord, <-chan error)

	// CollectAll accumulates the stream. On failure it returns the
	// records collected before the failure alongside the error.
	CollectAll(ctx context.Context, params domain.CollectionParams) ([]domain.UserRecord, error)
}
