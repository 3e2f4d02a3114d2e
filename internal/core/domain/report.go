package domain

// StarBucket is one bar of the star-count histogram.
type StarBucket struct {
	// Label is the human-readable bucket range, e.g. "10-49".
	Label string `json:"label"`

	// Min is the inclusive lower bound of the bucket.
	Min int `json:"min"`

	// Count is the number of repositories falling in the bucket.
	Count int `json:"count"`
}

// CompanyCount is one row of the company breakdown.
type CompanyCount struct {
	// Company is the normalised company name.
	Company string `json:"company"`

	// Users is the number of collected users reporting that company.
	Users int `json:"users"`
}

// RepoStats summarises the repos-per-user distribution.
type RepoStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    int     `json:"max"`
}

// Report is the derived analysis of a snapshot.
type Report struct {
	SnapshotID   string         `json:"snapshot_id"`
	Region       string         `json:"region"`
	Status       SnapshotStatus `json:"status"`
	Users        int            `json:"users"`
	Repositories int            `json:"repositories"`
	TotalStars   int            `json:"total_stars"`
	ReposPerUser RepoStats      `json:"repos_per_user"`
	StarBuckets  []StarBucket   `json:"star_buckets"`
	TopCompanies []CompanyCount `json:"top_companies"`

	// NoCompany counts users with an empty company field; kept separate
	// from TopCompanies so the table stays meaningful.
	NoCompany int `json:"no_company"`
}
