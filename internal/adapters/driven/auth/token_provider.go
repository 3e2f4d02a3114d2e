// Package auth resolves the GitHub credential for API calls.
//
// Resolution order: explicit token (flag), GITHUB_TOKEN environment
// variable, then the config store. Personal access tokens don't expire,
// so there is no refresh logic.
package auth

import (
	"context"
	"os"

	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
	"github.com/oss-atlas/ghcensus-cli/internal/core/ports/driven"
)

// EnvToken is the environment variable consulted for the credential.
const EnvToken = "GITHUB_TOKEN"

// ConfigKeyToken is the config store key holding the credential.
const ConfigKeyToken = "auth.token"

// Ensure TokenProvider implements the interface.
var _ driven.TokenProvider = (*TokenProvider)(nil)

// TokenProvider resolves the credential from flag, environment or config.
type TokenProvider struct {
	explicit string
	config   driven.ConfigStore
}

// NewTokenProvider creates a provider. explicit may be empty; config may
// be nil when no config store is available.
func NewTokenProvider(explicit string, config driven.ConfigStore) *TokenProvider {
	return &TokenProvider{explicit: explicit, config: config}
}

// GetToken returns the first credential found in resolution order.
func (p *TokenProvider) GetToken(_ context.Context) (string, error) {
	if p.explicit != "" {
		return p.explicit, nil
	}
	if env := os.Getenv(EnvToken); env != "" {
		return env, nil
	}
	if p.config != nil {
		if tok := p.config.GetString(ConfigKeyToken); tok != "" {
			return tok, nil
		}
	}
	return "", domain.ErrAuthRequired
}
