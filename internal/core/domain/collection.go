package domain

import "fmt"

// Default collection bounds. These mirror the parameters of the manual
// census run the tool was built for and can be overridden per run.
const (
	DefaultMinFollowers    = 100
	DefaultMaxReposPerUser = 500
)

// CollectionParams bounds a single collection run.
type CollectionParams struct {
	// Region is a free-text location filter. Matching semantics belong to
	// the directory search, not to this tool.
	Region string

	// MinFollowers is the inclusive lower bound on follower count.
	MinFollowers int

	// MaxReposPerUser caps how many repositories are fetched per user.
	// Truncation, not sampling: the newest-pushed repositories win.
	MaxReposPerUser int
}

// Validate checks the parameters before a run starts.
func (p CollectionParams) Validate() error {
	if p.Region == "" {
		return fmt.Errorf("%w: region is required", ErrInvalidInput)
	}
	if p.MinFollowers < 0 {
		return fmt.Errorf("%w: min followers must be non-negative", ErrInvalidInput)
	}
	if p.MaxReposPerUser <= 0 {
		return fmt.Errorf("%w: max repos per user must be positive", ErrInvalidInput)
	}
	return nil
}

// UserRecord pairs a collected profile with its (possibly empty) repository
// list. Records are emitted in directory-search order.
type UserRecord struct {
	User         UserProfile         `json:"user"`
	Repositories []RepositorySummary `json:"repositories"`
}
