package domain

import "time"

// SnapshotStatus reports how a collection run ended.
type SnapshotStatus string

const (
	// SnapshotRunning means the run is still collecting.
	SnapshotRunning SnapshotStatus = "running"

	// SnapshotComplete means the directory search was walked to exhaustion.
	SnapshotComplete SnapshotStatus = "complete"

	// SnapshotPartial means the run stopped on an error. Records collected
	// before the failure remain valid and queryable.
	SnapshotPartial SnapshotStatus = "partial"
)

// Snapshot is a persisted collection run: the parameters it was started
// with plus every record collected before it finished or failed.
type Snapshot struct {
	// ID is a generated unique identifier for the run.
	ID string

	// Region, MinFollowers and MaxReposPerUser echo the run parameters.
	Region          string
	MinFollowers    int
	MaxReposPerUser int

	StartedAt  time.Time
	FinishedAt time.Time
	Status     SnapshotStatus

	// Records in directory-search order.
	Records []UserRecord
}

// UserCount returns the number of collected users.
func (s *Snapshot) UserCount() int {
	return len(s.Records)
}

// RepositoryCount returns the total number of collected repositories.
func (s *Snapshot) RepositoryCount() int {
	n := 0
	for i := range s.Records {
		n += len(s.Records[i].Repositories)
	}
	return n
}
