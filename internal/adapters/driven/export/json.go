// Package export writes a collected record set to flat JSON files for
// ad-hoc analysis: users.json with one entry per profile, and
// repository_data.json with one row per repository carrying denormalised
// user fields.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/logger"
)

const (
	// UsersFile is the per-user output file name.
	UsersFile = "users.json"

	// RepositoriesFile is the per-repository output file name.
	RepositoriesFile = "repository_data.json"
)

// RepositoryRow is one flattened output row: repository fields plus the
// owning user's fields, denormalised for spreadsheet-style analysis.
type RepositoryRow struct {
	FullName      string    `json:"full_name"`
	Name          string    `json:"name"`
	Stars         int       `json:"stargazers_count"`
	PushedAt      time.Time `json:"pushed_at"`
	Language      string    `json:"language,omitempty"`
	Fork          bool      `json:"fork"`
	OwnerLogin    string    `json:"owner_login"`
	OwnerName     string    `json:"owner_name,omitempty"`
	OwnerCompany  string    `json:"owner_company,omitempty"`
	OwnerLocation string    `json:"owner_location,omitempty"`
}

// JSONExporter writes records to a target directory.
type JSONExporter struct {
	dir string
}

// NewJSONExporter creates an exporter writing into dir.
func NewJSONExporter(dir string) *JSONExporter {
	return &JSONExporter{dir: dir}
}

// Export writes users.json and repository_data.json. Partial record sets
// export fine; whatever was collected is what lands on disk.
func (e *JSONExporter) Export(records []domain.UserRecord) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	users := make([]domain.UserProfile, 0, len(records))
	var repos []RepositoryRow
	for i := range records {
		rec := &records[i]
		users = append(users, rec.User)
		for _, r := range rec.Repositories {
			repos = append(repos, RepositoryRow{
				FullName:      r.FullName,
				Name:          r.Name,
				Stars:         r.Stars,
				PushedAt:      r.PushedAt,
				Language:      r.Language,
				Fork:          r.Fork,
				OwnerLogin:    rec.User.Login,
				OwnerName:     rec.User.Name,
				OwnerCompany:  rec.User.Company,
				OwnerLocation: rec.User.Location,
			})
		}
	}
	if repos == nil {
		repos = []RepositoryRow{}
	}

	if err := e.writeFile(UsersFile, users); err != nil {
		return err
	}
	return e.writeFile(RepositoriesFile, repos)
}

// writeFile marshals v with indentation and writes it atomically enough
// for a local analysis file.
func (e *JSONExporter) writeFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", name, err)
	}

	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	logger.Info("Wrote %s", path)
	return nil
}
