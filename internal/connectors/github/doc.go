// Package github implements the driven.UserDirectory port against the
// GitHub REST API using google/go-github.
//
// The directory exposes two remote operations, page by page:
//
//   - SearchUsers: the Search API with a location/followers query
//   - ListRepositories: a user's repositories ordered by last push
//
// Search results only carry the login, so each profile is hydrated with
// a Users.Get call before it is returned. Both operations go through a
// dual-strategy rate limiter (proactive token bucket plus reactive
// header tracking) so a well-behaved run stays inside the API quota.
//
// Errors are mapped onto the domain taxonomy: 401 to domain.ErrAuthInvalid,
// 404 to domain.ErrNotFound, primary and secondary rate limits to
// domain.ErrRateLimited, connectivity failures and request timeouts to
// domain.ErrTransientNetwork.
package github
