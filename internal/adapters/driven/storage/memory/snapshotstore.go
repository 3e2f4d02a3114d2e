package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
// Used in tests and as a fallback when no data directory is writable.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.Snapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]*domain.Snapshot),
	}
}

// Create registers a new running snapshot.
func (s *SnapshotStore) Create(_ context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *snap
	cp.Records = append([]domain.UserRecord(nil), snap.Records...)
	s.snapshots[snap.ID] = &cp
	return nil
}

// AppendRecord stores one collected record.
func (s *SnapshotStore) AppendRecord(_ context.Context, snapshotID string, _ int, rec domain.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots[snapshotID]
	if !ok {
		return domain.ErrNotFound
	}
	snap.Records = append(snap.Records, rec)
	return nil
}

// Finish marks the snapshot complete or partial.
func (s *SnapshotStore) Finish(_ context.Context, snapshotID string, status domain.SnapshotStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots[snapshotID]
	if !ok {
		return domain.ErrNotFound
	}
	snap.Status = status
	snap.FinishedAt = at
	return nil
}

// Get retrieves a snapshot with all its records.
func (s *SnapshotStore) Get(_ context.Context, snapshotID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[snapshotID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	cp := *snap
	cp.Records = append([]domain.UserRecord(nil), snap.Records...)
	return &cp, nil
}

// Latest retrieves the most recently started snapshot.
func (s *SnapshotStore) Latest(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Snapshot
	for _, snap := range s.snapshots {
		if latest == nil || snap.StartedAt.After(latest.StartedAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}

	cp := *latest
	cp.Records = append([]domain.UserRecord(nil), latest.Records...)
	return &cp, nil
}

// List returns all snapshots, newest first, without records.
func (s *SnapshotStore) List(_ context.Context) ([]driven.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]driven.SnapshotInfo, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		infos = append(infos, driven.SnapshotInfo{
			ID:           snap.ID,
			Region:       snap.Region,
			Status:       snap.Status,
			StartedAt:    snap.StartedAt,
			FinishedAt:   snap.FinishedAt,
			Users:        snap.UserCount(),
			Repositories: snap.RepositoryCount(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartedAt.After(infos[j].StartedAt)
	})
	return infos, nil
}

// Close is a no-op for the in-memory store.
func (s *SnapshotStore) Close() error {
	return nil
}
