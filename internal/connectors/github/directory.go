package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
	"github.com/oss-atlas/ghcensus-cli/internal/logger"
)

// Ensure Directory implements the port.
var _ driven.UserDirectory = (*Directory)(nil)

const (
	// searchPageSize is the Search API maximum page size.
	searchPageSize = 100

	// repoPageSize is the repository listing page size.
	repoPageSize = 100
)

// Directory adapts the GitHub API to the driven.UserDirectory port.
type Directory struct {
	client *Client
}

// NewDirectory creates a directory over an API client.
func NewDirectory(client *Client) *Directory {
	return &Directory{client: client}
}

// buildSearchQuery renders the directory query in GitHub search syntax.
// Matching semantics (how free-text locations compare) belong to GitHub.
func buildSearchQuery(q driven.UserSearchQuery) string {
	return fmt.Sprintf("location:%q followers:>=%d type:user", q.Region, q.MinFollowers)
}

// SearchUsers returns one page of profiles matching the query.
//
// Search results carry little more than the login, so every hit is
// hydrated with a Users.Get call. A hit that disappears between the
// search and the hydration is logged and dropped.
func (d *Directory) SearchUsers(ctx context.Context, q driven.UserSearchQuery, page int) (*driven.UserPage, error) {
	if err := d.client.ensureClient(ctx); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	if err := d.client.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: searchPageSize, Page: page},
	}
	result, resp, err := d.client.gh.Search.Users(ctx, buildSearchQuery(q), opts)
	if err != nil {
		return nil, d.client.wrapError(err, "search users")
	}
	d.client.updateRateLimitFromResponse(resp)

	users := make([]domain.UserProfile, 0, len(result.Users))
	for _, stub := range result.Users {
		profile, err := d.hydrateUser(ctx, stub.GetLogin())
		if err != nil {
			if IsNotFound(err) {
				logger.Warn("User %s vanished between search and fetch, dropping", stub.GetLogin())
				continue
			}
			return nil, err
		}
		users = append(users, profile)
	}

	return &driven.UserPage{Users: users, NextPage: resp.NextPage}, nil
}

// hydrateUser fetches the full profile for a search hit.
func (d *Directory) hydrateUser(ctx context.Context, login string) (domain.UserProfile, error) {
	if err := d.client.rateLimiter.Wait(ctx); err != nil {
		return domain.UserProfile{}, fmt.Errorf("rate limit wait: %w", err)
	}

	user, resp, err := d.client.gh.Users.Get(ctx, login)
	if err != nil {
		return domain.UserProfile{}, d.client.wrapError(err, "get user")
	}
	d.client.updateRateLimitFromResponse(resp)

	return domain.UserProfile{
		Login:     user.GetLogin(),
		Name:      user.GetName(),
		Company:   user.GetCompany(),
		Followers: user.GetFollowers(),
		Location:  user.GetLocation(),
	}, nil
}

// ListRepositories returns one page of login's repositories, newest
// pushed first.
func (d *Directory) ListRepositories(ctx context.Context, login string, page int) (*driven.RepoPage, error) {
	if err := d.client.ensureClient(ctx); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	if err := d.client.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryListByUserOptions{
		Type:        "all",
		Sort:        "pushed",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: repoPageSize, Page: page},
	}
	repos, resp, err := d.client.gh.Repositories.ListByUser(ctx, login, opts)
	if err != nil {
		return nil, d.client.wrapError(err, "list repositories")
	}
	d.client.updateRateLimitFromResponse(resp)

	summaries := make([]domain.RepositorySummary, 0, len(repos))
	for _, r := range repos {
		summaries = append(summaries, domain.RepositorySummary{
			Name:     r.GetName(),
			FullName: r.GetFullName(),
			Owner:    r.GetOwner().GetLogin(),
			Stars:    r.GetStargazersCount(),
			PushedAt: r.GetPushedAt().Time,
			Language: r.GetLanguage(),
			Fork:     r.GetFork(),
		})
	}

	return &driven.RepoPage{Repos: summaries, NextPage: resp.NextPage}, nil
}
