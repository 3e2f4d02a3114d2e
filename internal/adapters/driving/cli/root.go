// Package cli implements the ghcensus command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/config/file"
	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/storage/sqlite"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driving"
	"github.com/oss-atlas/ghcensus-cli/internal/core/services"
	"github.com/oss-atlas/ghcensus-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Wired by Execute. Tests substitute these directly.
var (
	configStore   driven.ConfigStore
	snapshotStore driven.SnapshotStore
	directory     driven.UserDirectory
	collector     driving.Collector
	reporter      driving.Reporter

	// snapshotDBPath is the database file watched by 'report --watch'.
	snapshotDBPath string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ghcensus",
	Short: "Census of GitHub users and repositories in a region",
	Long: `ghcensus collects GitHub users located in a region with at least a
minimum follower count, fetches each user's most recently pushed
repositories, stores the result as a snapshot, and renders a short
analysis report.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the default dependencies and runs the root command.
func Execute(v string) error {
	version = v

	cleanup, err := initServices()
	if err != nil {
		return err
	}
	defer cleanup()

	return rootCmd.Execute()
}

// initServices builds the production wiring: TOML config, SQLite snapshot
// store and the reporter on top of it. The GitHub directory is built per
// command because it depends on the resolved token.
func initServices() (func(), error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".ghcensus")

	cfg, err := file.NewConfigStore(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	configStore = cfg

	dataDir := cfg.GetString(file.KeyDataDir)
	if dataDir == "" {
		dataDir = filepath.Join(baseDir, "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	snapshotStore = store
	snapshotDBPath = store.Path()

	reporter = services.NewReporter(store)

	return func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing snapshot store: %v", err)
		}
	}, nil
}
