package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driving"
	"github.com/oss-atlas/ghcensus-cli/internal/logger"
)

// Ensure Collector implements the interface.
var _ driving.Collector = (*Collector)(nil)

// Collector walks the directory search and, for each user, that user's
// repository listing. Strictly sequential: all repositories for user i are
// fetched before user i+1 is touched. One request is in flight at a time.
type Collector struct {
	directory driven.UserDirectory
}

// NewCollector creates a collector over a user directory.
func NewCollector(directory driven.UserDirectory) *Collector {
	return &Collector{directory: directory}
}

// Collect streams (user, repositories) records in directory-search order.
//
// The outer loop walks search pages to exhaustion; the inner loop walks a
// user's repository pages, stopping early at params.MaxReposPerUser. A
// user whose listing is not accessible (domain.ErrNotFound) is skipped.
// Any other error terminates the stream after the records already emitted.
func (c *Collector) Collect(
	ctx context.Context, params domain.CollectionParams,
) (<-chan domain.UserRecord, <-chan error) {
	records := make(chan domain.UserRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)

		if err := params.Validate(); err != nil {
			errs <- err
			return
		}

		q := driven.UserSearchQuery{
			Region:       params.Region,
			MinFollowers: params.MinFollowers,
		}

		logger.Info("Collecting users in %q with at least %d followers", params.Region, params.MinFollowers)

		page := 1
		for {
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			default:
			}

			userPage, err := c.directory.SearchUsers(ctx, q, page)
			if err != nil {
				errs <- fmt.Errorf("search users page %d: %w", page, err)
				return
			}

			for i := range userPage.Users {
				user := userPage.Users[i]

				repos, err := c.collectRepos(ctx, user.Login, params.MaxReposPerUser)
				if err != nil {
					if errors.Is(err, domain.ErrNotFound) {
						logger.Warn("Skipping %s: repository listing not accessible", user.Login)
						continue
					}
					errs <- fmt.Errorf("list repositories for %s: %w", user.Login, err)
					return
				}

				rec := domain.UserRecord{User: user, Repositories: repos}
				select {
				case records <- rec:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}

				logger.Debug("Collected %s: %d repositories", user.Login, len(repos))
			}

			if userPage.NextPage == 0 {
				return
			}
			page = userPage.NextPage
		}
	}()

	return records, errs
}

// collectRepos walks one user's repository pages until exhaustion or the
// per-user cap, whichever comes first.
func (c *Collector) collectRepos(
	ctx context.Context, login string, maxRepos int,
) ([]domain.RepositorySummary, error) {
	repos := []domain.RepositorySummary{}

	page := 1
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		repoPage, err := c.directory.ListRepositories(ctx, login, page)
		if err != nil {
			return nil, err
		}

		for _, r := range repoPage.Repos {
			repos = append(repos, r)
			if len(repos) >= maxRepos {
				return repos, nil
			}
		}

		if repoPage.NextPage == 0 {
			return repos, nil
		}
		page = repoPage.NextPage
	}
}

// CollectAll accumulates the stream into a slice. On failure the records
// collected before the failure are returned alongside the error; nothing
// is rolled back.
func (c *Collector) CollectAll(
	ctx context.Context, params domain.CollectionParams,
) ([]domain.UserRecord, error) {
	records, errs := c.Collect(ctx, params)

	var out []domain.UserRecord
	for rec := range records {
		out = append(out, rec)
	}

	if err := <-errs; err != nil {
		return out, err
	}
	return out, nil
}
