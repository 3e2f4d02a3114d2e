package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored snapshots",
	RunE:  runSnapshots,
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshots(cmd *cobra.Command, _ []string) error {
	if snapshotStore == nil {
		return errors.New("snapshot store not configured")
	}

	infos, err := snapshotStore.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(infos) == 0 {
		cmd.Println("No snapshots stored.")
		cmd.Println("Run 'ghcensus collect' to create one.")
		return nil
	}

	cmd.Println("Snapshots (newest first):")
	cmd.Println()
	for i := range infos {
		cmd.Printf("  %s\n", infos[i].ID)
		cmd.Printf("    Region:  %s\n", infos[i].Region)
		cmd.Printf("    Status:  %s\n", infos[i].Status)
		cmd.Printf("    Started: %s\n", infos[i].StartedAt.Format(time.RFC3339))
		cmd.Printf("    Users: %d, Repositories: %d\n", infos[i].Users, infos[i].Repositories)
		cmd.Println()
	}

	return nil
}
