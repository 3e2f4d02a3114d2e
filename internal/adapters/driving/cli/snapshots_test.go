package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/storage/memory"
)

func TestSnapshotsCmd_Use(t *testing.T) {
	assert.Equal(t, "snapshots", snapshotsCmd.Use)
}

func TestSnapshotsCmd_Empty(t *testing.T) {
	oldStore := snapshotStore
	snapshotStore = memory.NewSnapshotStore()
	defer func() {
		snapshotStore = oldStore
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"snapshots"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No snapshots stored")
}

func TestSnapshotsCmd_ListsStored(t *testing.T) {
	oldStore := snapshotStore
	snapshotStore = seedReportStore(t)
	defer func() {
		snapshotStore = oldStore
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"snapshots"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "snap-report")
	assert.Contains(t, out, "Region:  Singapore")
	assert.Contains(t, out, "Status:  complete")
	assert.Contains(t, out, "Users: 2, Repositories: 2")
}

func TestSnapshotsCmd_StoreNotConfigured(t *testing.T) {
	oldStore := snapshotStore
	snapshotStore = nil
	defer func() {
		snapshotStore = oldStore
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"snapshots"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot store not configured")
}
