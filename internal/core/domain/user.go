package domain

import "strings"

// UserProfile describes a user returned by the directory search.
// Profiles are read-only snapshots of the remote record; nothing in this
// repository mutates them after collection.
type UserProfile struct {
	// Login is the unique account identifier.
	Login string `json:"login"`

	// Name is the display name, possibly empty.
	Name string `json:"name,omitempty"`

	// Company is the raw company field as returned by the API.
	// Use CompanyNormalized for aggregation.
	Company string `json:"company,omitempty"`

	// Followers is the follower count at collection time.
	Followers int `json:"followers"`

	// Location is the free-text location string matched by the search.
	Location string `json:"location,omitempty"`
}

// CompanyNormalized returns the company field normalised for aggregation:
// the leading "@" organisation marker is stripped, surrounding whitespace
// trimmed and the result case-folded. Returns "" when no company is set.
func (u UserProfile) CompanyNormalized() string {
	c := strings.TrimSpace(u.Company)
	c = strings.TrimPrefix(c, "@")
	return strings.ToLower(strings.TrimSpace(c))
}

// DisplayName returns the display name, falling back to the login.
func (u UserProfile) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}
