package driven

import "context"

// TokenProvider provides the API credential for authenticated calls.
// Implementations decide where the token comes from (environment,
// config file, prompt).
type TokenProvider interface {
	// GetToken returns a valid access token.
	// Returns domain.ErrAuthRequired when no credential is configured.
	GetToken(ctx context.Context) (string, error)
}
