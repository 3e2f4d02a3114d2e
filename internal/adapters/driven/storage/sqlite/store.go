// Package sqlite persists collection snapshots in a local SQLite database.
//
// One snapshot row per run, one user row per collected profile and one
// repository row per (user, repository) pair. Records are written as the
// collector emits them, so a run that dies mid-flight leaves a queryable
// partial snapshot behind.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store is the SQLite-backed snapshot store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store under dataDir. If dataDir is empty it
// defaults to ~/.ghcensus/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ghcensus", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "census.db")

	// WAL keeps a concurrent `report --watch` reader from blocking writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies any pending .up.sql files from the embedded FS.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Create registers a new snapshot, including any records it already holds.
func (s *Store) Create(ctx context.Context, snap *domain.Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, region, min_followers, max_repos_per_user, started_at, finished_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Region, snap.MinFollowers, snap.MaxReposPerUser,
		formatTime(snap.StartedAt), nullableTime(snap.FinishedAt), string(snap.Status),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	for seq, rec := range snap.Records {
		if err := s.AppendRecord(ctx, snap.ID, seq, rec); err != nil {
			return err
		}
	}
	return nil
}

// AppendRecord stores one collected record inside a transaction so a user
// row never appears without its repositories.
func (s *Store) AppendRecord(ctx context.Context, snapshotID string, seq int, rec domain.UserRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (snapshot_id, seq, login, name, company, followers, location)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snapshotID, seq, rec.User.Login, rec.User.Name, rec.User.Company,
		rec.User.Followers, rec.User.Location,
	)
	if err != nil {
		return fmt.Errorf("inserting user %s: %w", rec.User.Login, err)
	}

	for pos, repo := range rec.Repositories {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO repositories (snapshot_id, user_seq, position, name, full_name, owner, stars, pushed_at, language, fork)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshotID, seq, pos, repo.Name, repo.FullName, repo.Owner,
			repo.Stars, formatTime(repo.PushedAt), repo.Language, boolToInt(repo.Fork),
		)
		if err != nil {
			return fmt.Errorf("inserting repository %s: %w", repo.FullName, err)
		}
	}

	return tx.Commit()
}

// Finish marks the snapshot complete or partial.
func (s *Store) Finish(ctx context.Context, snapshotID string, status domain.SnapshotStatus, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE snapshots SET status = ?, finished_at = ? WHERE id = ?`,
		string(status), formatTime(at), snapshotID,
	)
	if err != nil {
		return fmt.Errorf("finishing snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get loads a snapshot with all its records.
func (s *Store) Get(ctx context.Context, snapshotID string) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}
	var startedAt string
	var finishedAt sql.NullString
	var status string

	row := s.db.QueryRowContext(ctx, `
		SELECT id, region, min_followers, max_repos_per_user, started_at, finished_at, status
		FROM snapshots WHERE id = ?`, snapshotID)
	err := row.Scan(&snap.ID, &snap.Region, &snap.MinFollowers, &snap.MaxReposPerUser,
		&startedAt, &finishedAt, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	snap.Status = domain.SnapshotStatus(status)
	snap.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		snap.FinishedAt = parseTime(finishedAt.String)
	}

	if err := s.loadRecords(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// loadRecords fills snap.Records in collection order.
func (s *Store) loadRecords(ctx context.Context, snap *domain.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, login, name, company, followers, location
		FROM users WHERE snapshot_id = ? ORDER BY seq`, snap.ID)
	if err != nil {
		return fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	bySeq := make(map[int]int) // seq -> index in snap.Records
	for rows.Next() {
		var seq int
		var u domain.UserProfile
		if err := rows.Scan(&seq, &u.Login, &u.Name, &u.Company, &u.Followers, &u.Location); err != nil {
			return fmt.Errorf("scanning user: %w", err)
		}
		bySeq[seq] = len(snap.Records)
		snap.Records = append(snap.Records, domain.UserRecord{
			User:         u,
			Repositories: []domain.RepositorySummary{},
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating users: %w", err)
	}

	repoRows, err := s.db.QueryContext(ctx, `
		SELECT user_seq, name, full_name, owner, stars, pushed_at, language, fork
		FROM repositories WHERE snapshot_id = ? ORDER BY user_seq, position`, snap.ID)
	if err != nil {
		return fmt.Errorf("querying repositories: %w", err)
	}
	defer repoRows.Close()

	for repoRows.Next() {
		var seq, fork int
		var pushedAt sql.NullString
		var r domain.RepositorySummary
		if err := repoRows.Scan(&seq, &r.Name, &r.FullName, &r.Owner, &r.Stars, &pushedAt, &r.Language, &fork); err != nil {
			return fmt.Errorf("scanning repository: %w", err)
		}
		if pushedAt.Valid {
			r.PushedAt = parseTime(pushedAt.String)
		}
		r.Fork = fork != 0

		idx, ok := bySeq[seq]
		if !ok {
			continue
		}
		snap.Records[idx].Repositories = append(snap.Records[idx].Repositories, r)
	}
	return repoRows.Err()
}

// Latest loads the most recently started snapshot.
func (s *Store) Latest(ctx context.Context) (*domain.Snapshot, error) {
	var id string
	row := s.db.QueryRowContext(ctx,
		`SELECT id FROM snapshots ORDER BY started_at DESC LIMIT 1`)
	err := row.Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning latest snapshot id: %w", err)
	}
	return s.Get(ctx, id)
}

// List returns all snapshots, newest first, without records.
func (s *Store) List(ctx context.Context) ([]driven.SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.region, s.status, s.started_at, s.finished_at,
		       (SELECT COUNT(*) FROM users u WHERE u.snapshot_id = s.id),
		       (SELECT COUNT(*) FROM repositories r WHERE r.snapshot_id = s.id)
		FROM snapshots s ORDER BY s.started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var infos []driven.SnapshotInfo
	for rows.Next() {
		var info driven.SnapshotInfo
		var status, startedAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&info.ID, &info.Region, &status, &startedAt, &finishedAt,
			&info.Users, &info.Repositories); err != nil {
			return nil, fmt.Errorf("scanning snapshot info: %w", err)
		}
		info.Status = domain.SnapshotStatus(status)
		info.StartedAt = parseTime(startedAt)
		if finishedAt.Valid {
			info.FinishedAt = parseTime(finishedAt.String)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// timeLayout pads nanoseconds to a fixed width so lexicographic ORDER BY
// on started_at matches chronological order. RFC3339Nano trims trailing
// zeros, which breaks that.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
