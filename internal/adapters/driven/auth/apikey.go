package auth

import (
	"context"
	"os"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Ensure APIKeyProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*APIKeyProvider)(nil)

// APIKeyProvider supplies the provider API key from the environment or
// the config store. Keys are static and never need refreshing.
type APIKeyProvider struct {
	config driven.ConfigStore
}

// NewAPIKeyProvider creates a token provider for API-key authentication.
func NewAPIKeyProvider(config driven.ConfigStore) *APIKeyProvider {
	return &APIKeyProvider{config: config}
}

// GetToken returns the API key. The environment variable wins over the
// stored key so one-off runs can use a different account.
func (p *APIKeyProvider) GetToken(_ context.Context) (string, error) {
	if key := p.lookup(); key != "" {
		return key, nil
	}
	return "", domain.ErrAuthRequired
}

// Method reports api_key presentation (basic-auth username).
func (p *APIKeyProvider) Method() driven.CredentialMethod {
	return driven.CredentialAPIKey
}

// IsAuthenticated reports whether a key is configured. It does not
// validate the key against the provider.
func (p *APIKeyProvider) IsAuthenticated() bool {
	return p.lookup() != ""
}

func (p *APIKeyProvider) lookup() string {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return p.config.GetString(KeyAPIKey)
}
