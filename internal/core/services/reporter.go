package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driving"
)

// Ensure Reporter implements the interface.
var _ driving.Reporter = (*Reporter)(nil)

// DefaultTopCompanies is the default size of the company table.
const DefaultTopCompanies = 10

// starBucketBounds are the inclusive lower bounds of the histogram buckets.
var starBucketBounds = []struct {
	min   int
	label string
}{
	{0, "0"},
	{1, "1-9"},
	{10, "10-49"},
	{50, "50-99"},
	{100, "100-499"},
	{500, "500-999"},
	{1000, "1000+"},
}

// Reporter derives the written analysis from persisted snapshots.
type Reporter struct {
	store driven.SnapshotStore
}

// NewReporter creates a reporter over a snapshot store.
func NewReporter(store driven.SnapshotStore) *Reporter {
	return &Reporter{store: store}
}

// Build computes the report for a snapshot. An empty snapshotID selects
// the latest snapshot.
func (r *Reporter) Build(ctx context.Context, snapshotID string, topCompanies int) (*domain.Report, error) {
	var (
		snap *domain.Snapshot
		err  error
	)
	if snapshotID == "" {
		snap, err = r.store.Latest(ctx)
	} else {
		snap, err = r.store.Get(ctx, snapshotID)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if topCompanies <= 0 {
		topCompanies = DefaultTopCompanies
	}

	return BuildReport(snap, topCompanies), nil
}

// BuildReport computes the analysis for an in-memory snapshot.
func BuildReport(snap *domain.Snapshot, topCompanies int) *domain.Report {
	report := &domain.Report{
		SnapshotID:  snap.ID,
		Region:      snap.Region,
		Status:      snap.Status,
		Users:       snap.UserCount(),
		StarBuckets: make([]domain.StarBucket, len(starBucketBounds)),
	}
	for i, b := range starBucketBounds {
		report.StarBuckets[i] = domain.StarBucket{Label: b.label, Min: b.min}
	}

	companies := make(map[string]int)
	repoCounts := make([]int, 0, len(snap.Records))

	for i := range snap.Records {
		rec := &snap.Records[i]
		repoCounts = append(repoCounts, len(rec.Repositories))
		report.Repositories += len(rec.Repositories)

		if company := rec.User.CompanyNormalized(); company != "" {
			companies[company]++
		} else {
			report.NoCompany++
		}

		for _, repo := range rec.Repositories {
			report.TotalStars += repo.Stars
			report.StarBuckets[bucketIndex(repo.Stars)].Count++
		}
	}

	report.ReposPerUser = repoStats(repoCounts)
	report.TopCompanies = topCompanyCounts(companies, topCompanies)

	return report
}

// bucketIndex returns the histogram bucket for a star count.
func bucketIndex(stars int) int {
	idx := 0
	for i, b := range starBucketBounds {
		if stars >= b.min {
			idx = i
		}
	}
	return idx
}

// repoStats computes mean, median and max of the repos-per-user counts.
func repoStats(counts []int) domain.RepoStats {
	if len(counts) == 0 {
		return domain.RepoStats{}
	}

	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Ints(sorted)

	total := 0
	for _, n := range sorted {
		total += n
	}

	mid := len(sorted) / 2
	median := float64(sorted[mid])
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	}

	return domain.RepoStats{
		Mean:   float64(total) / float64(len(sorted)),
		Median: median,
		Max:    sorted[len(sorted)-1],
	}
}

// topCompanyCounts sorts companies by user count (ties alphabetically)
// and keeps the first n.
func topCompanyCounts(companies map[string]int, n int) []domain.CompanyCount {
	out := make([]domain.CompanyCount, 0, len(companies))
	for company, users := range companies {
		out = append(out, domain.CompanyCount{Company: company, Users: users})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Users != out[j].Users {
			return out[i].Users > out[j].Users
		}
		return out[i].Company < out[j].Company
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
