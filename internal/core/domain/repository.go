package domain

import "time"

// RepositorySummary describes a single repository owned by a collected user.
// Like UserProfile it is a read-only snapshot; the owner relationship is
// carried denormalised in Owner.
type RepositorySummary struct {
	// Name is the repository name without the owner prefix.
	Name string `json:"name"`

	// FullName is "owner/name".
	FullName string `json:"full_name"`

	// Owner is the login of the owning user.
	Owner string `json:"owner"`

	// Stars is the stargazer count at collection time.
	Stars int `json:"stargazers_count"`

	// PushedAt is the last push timestamp. Listings are ordered by this
	// field, newest first.
	PushedAt time.Time `json:"pushed_at"`

	// Language is the primary language, possibly empty.
	Language string `json:"language,omitempty"`

	// Fork reports whether the repository is a fork.
	Fork bool `json:"fork"`
}
