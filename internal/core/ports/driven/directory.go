package driven

import (
	"context"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
)

// UserSearchQuery is the directory-side filter for a collection run.
type UserSearchQuery struct {
	// Region is matched against profile locations by the directory.
	Region string

	// MinFollowers is the inclusive follower lower bound. The directory
	// enforces it server-side; the collector never re-filters.
	MinFollowers int
}

// UserPage is one page of directory search results.
type UserPage struct {
	Users []domain.UserProfile

	// NextPage is the page number to request next, 0 when exhausted.
	NextPage int
}

// RepoPage is one page of a user's repository listing.
type RepoPage struct {
	Repos []domain.RepositorySummary

	// NextPage is the page number to request next, 0 when exhausted.
	NextPage int
}

// UserDirectory is the external capability the collector consumes.
// It exposes the two remote operations page by page; lazy walking,
// per-user caps and skip-on-not-found policy belong to the collector.
// Pagination cursor format and wire protocol belong to the implementation.
type UserDirectory interface {
	// SearchUsers returns one page of profiles matching the query.
	// page 0 or 1 both mean the first page.
	SearchUsers(ctx context.Context, q UserSearchQuery, page int) (*UserPage, error)

	// ListRepositories returns one page of login's repositories,
	// ordered by last push, newest first.
	ListRepositories(ctx context.Context, login string, page int) (*RepoPage, error)
}
