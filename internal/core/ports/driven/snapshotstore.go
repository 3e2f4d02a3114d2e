package driven

import (
	"context"
	"time"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
)

// SnapshotInfo is the listing view of a snapshot, without records.
type SnapshotInfo struct {
	ID           string
	Region       string
	Status       domain.SnapshotStatus
	StartedAt    time.Time
	FinishedAt   time.Time
	Users        int
	Repositories int
}

// SnapshotStore persists collection runs. Records are appended as they
// arrive so a failed run keeps everything collected before the failure.
type SnapshotStore interface {
	// Create registers a new running snapshot.
	Create(ctx context.Context, snap *domain.Snapshot) error

	// AppendRecord stores one collected record. seq preserves
	// directory-search order.
	AppendRecord(ctx context.Context, snapshotID string, seq int, rec domain.UserRecord) error

	// Finish marks the snapshot complete or partial.
	Finish(ctx context.Context, snapshotID string, status domain.SnapshotStatus, at time.Time) error

	// Get loads a snapshot with all its records.
	// Returns domain.ErrNotFound if the ID is unknown.
	Get(ctx context.Context, snapshotID string) (*domain.Snapshot, error)

	// Latest loads the most recently started snapshot.
	// Returns domain.ErrNotFound when the store is empty.
	Latest(ctx context.Context) (*domain.Snapshot, error)

	// List returns all snapshots, newest first, without records.
	List(ctx context.Context) ([]SnapshotInfo, error)

	// Close releases underlying resources.
	Close() error
}
