package driving

import (
	"context"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
)

// Reporter derives the written analysis from a persisted snapshot.
type Reporter interface {
	// Build computes the report for a snapshot. snapshotID may be empty,
	// meaning the latest snapshot. topCompanies caps the company table.
	Build(ctx context.Context, snapshotID string, topCompanies int) (*domain.Report, error)
}
