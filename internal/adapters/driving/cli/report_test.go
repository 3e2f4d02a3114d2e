package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/storage/memory"
	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/services"
)

func seedReportStore(t *testing.T) *memory.SnapshotStore {
	t.Helper()

	store := memory.NewSnapshotStore()
	snap := &domain.Snapshot{
		ID:              "snap-report",
		Region:          "Singapore",
		MinFollowers:    100,
		MaxReposPerUser: 500,
		StartedAt:       time.Now(),
		Status:          domain.SnapshotRunning,
	}
	require.NoError(t, store.Create(context.Background(), snap))

	for i, rec := range censusRecords() {
		require.NoError(t, store.AppendRecord(context.Background(), snap.ID, i, rec))
	}
	require.NoError(t, store.Finish(
		context.Background(), snap.ID, domain.SnapshotComplete, time.Now()))

	return store
}

func setupReportTest(t *testing.T, store *memory.SnapshotStore) func() {
	t.Helper()

	oldReporter := reporter
	oldConfig := configStore
	reporter = services.NewReporter(store)
	configStore = nil

	return func() {
		reporter = oldReporter
		configStore = oldConfig
		reportSnapshot = ""
		reportTop = services.DefaultTopCompanies
		reportJSON = false
		reportWatch = false
		reportCmd.Flags().Visit(func(f *pflag.Flag) {
			f.Changed = false
		})
	}
}

func TestReportCmd_Use(t *testing.T) {
	assert.Equal(t, "report", reportCmd.Use)
}

func TestReportCmd_TextOutput(t *testing.T) {
	cleanup := setupReportTest(t, seedReportStore(t))
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"report"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Census of Singapore")
	assert.Contains(t, out, "snap-report")
	assert.Contains(t, out, "Users:        2")
	assert.Contains(t, out, "Repositories: 2")
	assert.Contains(t, out, "Star distribution")
	assert.Contains(t, out, "govtech")
	assert.Contains(t, out, "No company reported: 1")
}

func TestReportCmd_JSONOutput(t *testing.T) {
	cleanup := setupReportTest(t, seedReportStore(t))
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"report", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)

	var rep domain.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	assert.Equal(t, "snap-report", rep.SnapshotID)
	assert.Equal(t, 2, rep.Users)
	assert.Equal(t, 2, rep.Repositories)
	assert.Equal(t, 15, rep.TotalStars)
}

func TestReportCmd_SpecificSnapshot(t *testing.T) {
	cleanup := setupReportTest(t, seedReportStore(t))
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"report", "--snapshot", "snap-report", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "snap-report")
}

func TestReportCmd_UnknownSnapshot(t *testing.T) {
	cleanup := setupReportTest(t, seedReportStore(t))
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"report", "--snapshot", "missing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshot found")
}

func TestReportCmd_EmptyStore(t *testing.T) {
	cleanup := setupReportTest(t, memory.NewSnapshotStore())
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"report"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshot found")
}

func TestReportCmd_ReporterNotConfigured(t *testing.T) {
	oldReporter := reporter
	reporter = nil
	defer func() {
		reporter = oldReporter
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"report"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reporter not configured")
}
