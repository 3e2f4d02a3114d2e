package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/config/file"
	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driving/tui"
	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/services"
	"github.com/oss-atlas/ghcensus-cli/internal/logger"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the analysis of a snapshot",
	Long: `Computes counts, the star distribution and the company breakdown
for a stored snapshot. Defaults to the most recent snapshot.

With --watch the report re-renders whenever the snapshot store changes,
so it can follow a collection running in another terminal.`,
	RunE: runReport,
}

// Flags for report.
var (
	reportSnapshot string
	reportTop      int
	reportJSON     bool
	reportWatch    bool
)

// barWidth is the widest star-distribution bar in characters.
const barWidth = 30

func init() {
	reportCmd.Flags().StringVarP(
		&reportSnapshot, "snapshot", "s", "", "snapshot ID (defaults to the latest)")
	reportCmd.Flags().IntVar(
		&reportTop, "top", services.DefaultTopCompanies, "number of companies in the breakdown")
	reportCmd.Flags().BoolVar(
		&reportJSON, "json", false, "output the report as JSON")
	reportCmd.Flags().BoolVarP(
		&reportWatch, "watch", "w", false, "re-render when the snapshot store changes")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if reporter == nil {
		return errors.New("reporter not configured")
	}

	top := reportTop
	if !cmd.Flags().Changed("top") && configStore != nil {
		if v := configStore.GetInt(file.KeyTopCompanies); v > 0 {
			top = v
		}
	}

	render := func(ctx context.Context) error {
		rep, err := reporter.Build(ctx, reportSnapshot, top)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errors.New("no snapshot found, run 'ghcensus collect' first")
			}
			return fmt.Errorf("failed to build report: %w", err)
		}
		if reportJSON {
			return outputReportJSON(cmd, rep)
		}
		outputReportText(cmd, rep)
		return nil
	}

	if !reportWatch {
		return render(context.Background())
	}
	return watchReport(cmd, render)
}

// watchReport re-renders on changes to the snapshot database directory.
// Events are debounced because one append touches several files.
func watchReport(cmd *cobra.Command, render func(context.Context) error) error {
	if snapshotDBPath == "" {
		return errors.New("snapshot store path not configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Best-effort cleanup

	// Watch the directory: SQLite in WAL mode writes to sidecar files.
	if err := watcher.Add(filepath.Dir(snapshotDBPath)); err != nil {
		return fmt.Errorf("failed to watch snapshot store: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := render(ctx); err != nil {
		return err
	}
	cmd.Println("\nWatching for changes (ctrl+c to stop)...")

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounce.Reset(500 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		case <-debounce.C:
			cmd.Println()
			if err := render(ctx); err != nil {
				return err
			}
			cmd.Println("\nWatching for changes (ctrl+c to stop)...")
		}
	}
}

func outputReportJSON(cmd *cobra.Command, rep *domain.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputReportText(cmd *cobra.Command, rep *domain.Report) {
	styles := tui.DefaultStyles()

	cmd.Println(styles.Title.Render(fmt.Sprintf("Census of %s", rep.Region)))
	cmd.Printf("Snapshot %s (%s)\n", rep.SnapshotID, rep.Status)
	cmd.Println()

	cmd.Printf("Users:        %d\n", rep.Users)
	cmd.Printf("Repositories: %d\n", rep.Repositories)
	cmd.Printf("Total stars:  %d\n", rep.TotalStars)
	cmd.Printf("Repos per user: mean %.1f, median %.1f, max %d\n",
		rep.ReposPerUser.Mean, rep.ReposPerUser.Median, rep.ReposPerUser.Max)
	cmd.Println()

	cmd.Println(styles.Title.Render("Star distribution"))
	maxCount := 0
	for _, b := range rep.StarBuckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	for _, b := range rep.StarBuckets {
		bar := ""
		if maxCount > 0 && b.Count > 0 {
			n := b.Count * barWidth / maxCount
			if n == 0 {
				n = 1
			}
			bar = strings.Repeat("#", n)
		}
		cmd.Printf("  %-8s %6d %s\n", b.Label, b.Count, bar)
	}
	cmd.Println()

	cmd.Println(styles.Title.Render("Top companies"))
	if len(rep.TopCompanies) == 0 {
		cmd.Println("  (none reported)")
	}
	for i, c := range rep.TopCompanies {
		cmd.Printf("  %2d. %-24s %d\n", i+1, c.Company, c.Users)
	}
	cmd.Printf("  No company reported: %d\n", rep.NoCompany)
}
