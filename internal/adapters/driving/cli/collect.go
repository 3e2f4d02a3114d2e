package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/auth"
	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/config/file"
	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/export"
	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/retry"
	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driving/tui"
	"github.com/oss-atlas/ghcensus-cli/internal/connectors/github"
	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
	"github.com/oss-atlas/ghcensus-cli/internal/core/services"
	"github.com/oss-atlas/ghcensus-cli/internal/logger"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect users and repositories for a region",
	Long: `Searches GitHub for users located in a region with at least the
minimum follower count, fetches each user's most recently pushed
repositories up to the per-user cap, and stores the result as a snapshot.

A run interrupted by a rate limit or network failure keeps everything
collected before the failure as a partial snapshot.

Examples:
  ghcensus collect --region Singapore
  ghcensus collect --region "Kuala Lumpur" --min-followers 50 --max-repos 200
  ghcensus collect --region Singapore --out ./export --progress`,
	RunE: runCollect,
}

// Flags for collect.
var (
	collectRegion       string
	collectMinFollowers int
	collectMaxRepos     int
	collectToken        string
	collectOut          string
	collectProgress     bool
)

func init() {
	collectCmd.Flags().StringVarP(
		&collectRegion, "region", "r", "", "location filter for the user search")
	collectCmd.Flags().IntVar(
		&collectMinFollowers, "min-followers", domain.DefaultMinFollowers,
		"inclusive lower bound on follower count")
	collectCmd.Flags().IntVar(
		&collectMaxRepos, "max-repos", domain.DefaultMaxReposPerUser,
		"maximum repositories fetched per user")
	collectCmd.Flags().StringVar(
		&collectToken, "token", "", "GitHub token (overrides env and config)")
	collectCmd.Flags().StringVarP(
		&collectOut, "out", "o", "", "directory for JSON export of the collected data")
	collectCmd.Flags().BoolVar(
		&collectProgress, "progress", false, "show a live progress display")
	rootCmd.AddCommand(collectCmd)
}

// collectResult carries the outcome of the persistence loop out of the
// progress-display goroutine.
type collectResult struct {
	records []domain.UserRecord
	err     error
}

func runCollect(cmd *cobra.Command, _ []string) error {
	if snapshotStore == nil {
		return errors.New("snapshot store not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	coll := collector
	if coll == nil {
		dir, err := buildDirectory(ctx)
		if err != nil {
			return err
		}
		coll = services.NewCollector(dir)
	}

	params := collectParams(cmd)
	if params.Region == "" {
		return errors.New("region is required (use --region or set collect.region)")
	}
	if err := params.Validate(); err != nil {
		return err
	}

	snap := &domain.Snapshot{
		ID:              uuid.New().String(),
		Region:          params.Region,
		MinFollowers:    params.MinFollowers,
		MaxReposPerUser: params.MaxReposPerUser,
		StartedAt:       time.Now(),
		Status:          domain.SnapshotRunning,
	}
	if err := snapshotStore.Create(ctx, snap); err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	cmd.Printf("Collecting users in %q (followers >= %d, repo cap %d)...\n",
		params.Region, params.MinFollowers, params.MaxReposPerUser)

	records, errs := coll.Collect(ctx, params)

	var collected []domain.UserRecord
	var collectErr error
	if collectProgress {
		collected, collectErr = consumeWithProgress(cmd, cancel, snap.ID, params.Region, records, errs)
	} else {
		collected, collectErr = consumePlain(cmd, snap.ID, records, errs)
	}

	status := domain.SnapshotComplete
	if collectErr != nil {
		status = domain.SnapshotPartial
	}
	// Finalise with a fresh context so an interrupt doesn't lose the status.
	if err := snapshotStore.Finish(context.Background(), snap.ID, status, time.Now()); err != nil {
		logger.Error("failed to finalise snapshot %s: %v", snap.ID, err)
	}

	if collectOut != "" && len(collected) > 0 {
		exporter := export.NewJSONExporter(collectOut)
		if err := exporter.Export(collected); err != nil {
			return fmt.Errorf("failed to export JSON: %w", err)
		}
		cmd.Printf("Exported JSON to %s\n", collectOut)
	}

	repoTotal := 0
	for i := range collected {
		repoTotal += len(collected[i].Repositories)
	}

	if collectErr != nil {
		cmd.Printf("Saved partial snapshot %s: %d users, %d repositories.\n",
			snap.ID, len(collected), repoTotal)
		return fmt.Errorf("collection incomplete: %w", collectErr)
	}

	cmd.Printf("Saved snapshot %s: %d users, %d repositories.\n",
		snap.ID, len(collected), repoTotal)
	cmd.Println("Run 'ghcensus report' to analyse it.")
	return nil
}

// buildDirectory wires the GitHub connector behind the retry decorator.
// Tests bypass it by setting the directory variable.
func buildDirectory(ctx context.Context) (driven.UserDirectory, error) {
	if directory != nil {
		return directory, nil
	}

	provider := auth.NewTokenProvider(collectToken, configStore)
	if _, err := provider.GetToken(ctx); err != nil {
		return nil, fmt.Errorf(
			"not authenticated, run 'ghcensus auth login' or set %s: %w", auth.EnvToken, err)
	}

	client := github.NewClient(provider)
	return retry.NewDirectory(github.NewDirectory(client)), nil
}

// collectParams resolves run parameters: flags win, then config, then
// the built-in defaults.
func collectParams(cmd *cobra.Command) domain.CollectionParams {
	params := domain.CollectionParams{
		Region:          collectRegion,
		MinFollowers:    collectMinFollowers,
		MaxReposPerUser: collectMaxRepos,
	}
	if configStore == nil {
		return params
	}
	if params.Region == "" {
		params.Region = configStore.GetString(file.KeyRegion)
	}
	if !cmd.Flags().Changed("min-followers") {
		if v := configStore.GetInt(file.KeyMinFollowers); v > 0 {
			params.MinFollowers = v
		}
	}
	if !cmd.Flags().Changed("max-repos") {
		if v := configStore.GetInt(file.KeyMaxReposPerUser); v > 0 {
			params.MaxReposPerUser = v
		}
	}
	return params
}

// consumePlain persists records as they arrive, printing a running count.
func consumePlain(
	cmd *cobra.Command,
	snapshotID string,
	records <-chan domain.UserRecord,
	errs <-chan error,
) ([]domain.UserRecord, error) {
	var collected []domain.UserRecord
	repoTotal := 0
	for rec := range records {
		// Persist with a fresh context so an interrupt mid-run doesn't
		// drop the record already received.
		if err := snapshotStore.AppendRecord(context.Background(), snapshotID, len(collected), rec); err != nil {
			return collected, fmt.Errorf("failed to store record for %s: %w", rec.User.Login, err)
		}
		collected = append(collected, rec)
		repoTotal += len(rec.Repositories)
		cmd.Printf("\rCollected %d users, %d repositories...", len(collected), repoTotal)
	}
	if len(collected) > 0 {
		cmd.Println()
	}

	if err := <-errs; err != nil {
		return collected, err
	}
	return collected, nil
}

// consumeWithProgress runs the persistence loop behind a live progress
// display. Quitting the display cancels the collection.
func consumeWithProgress(
	cmd *cobra.Command,
	cancel context.CancelFunc,
	snapshotID string,
	region string,
	records <-chan domain.UserRecord,
	errs <-chan error,
) ([]domain.UserRecord, error) {
	prog := tea.NewProgram(tui.NewProgressModel(region), tea.WithOutput(cmd.OutOrStdout()))
	resCh := make(chan collectResult, 1)

	go func() {
		var collected []domain.UserRecord
		repoTotal := 0
		for rec := range records {
			if err := snapshotStore.AppendRecord(context.Background(), snapshotID, len(collected), rec); err != nil {
				resCh <- collectResult{collected, fmt.Errorf("failed to store record for %s: %w", rec.User.Login, err)}
				prog.Send(tui.DoneMsg{Err: err})
				return
			}
			collected = append(collected, rec)
			repoTotal += len(rec.Repositories)
			prog.Send(tui.ProgressMsg{
				Users:        len(collected),
				Repositories: repoTotal,
				CurrentUser:  rec.User.Login,
			})
		}
		err := <-errs
		resCh <- collectResult{collected, err}
		prog.Send(tui.DoneMsg{Err: err})
	}()

	if _, err := prog.Run(); err != nil {
		logger.Warn("progress display failed: %v", err)
	}
	// If the display was quit before the run finished, stop collecting.
	cancel()

	res := <-resCh
	return res.records, res.err
}
