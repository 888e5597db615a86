package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Ensure BearerProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*BearerProvider)(nil)

// BearerProvider supplies OAuth2 bearer tokens through the client
// credentials grant. The underlying token source caches tokens and
// refreshes them once they expire.
type BearerProvider struct {
	config driven.ConfigStore

	mu     sync.Mutex
	source oauth2.TokenSource
}

// NewBearerProvider creates a token provider for OAuth2 bearer
// authentication.
func NewBearerProvider(config driven.ConfigStore) *BearerProvider {
	return &BearerProvider{config: config}
}

// GetToken returns a currently valid access token, contacting the
// token endpoint only when the cached one has expired.
func (p *BearerProvider) GetToken(_ context.Context) (string, error) {
	source, err := p.tokenSource()
	if err != nil {
		return "", err
	}
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("fetch bearer token: %w", err)
	}
	return token.AccessToken, nil
}

// tokenSource lazily builds the client-credentials source. The source
// outlives individual requests, so it is bound to the background
// context rather than a per-call one.
func (p *BearerProvider) tokenSource() (oauth2.TokenSource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.source != nil {
		return p.source, nil
	}

	cc := clientcredentials.Config{
		ClientID:     p.config.GetString(KeyOAuthClientID),
		ClientSecret: p.config.GetString(KeyOAuthClientSecret),
		TokenURL:     p.config.GetString(KeyOAuthTokenURL),
	}
	if cc.ClientID == "" || cc.ClientSecret == "" || cc.TokenURL == "" {
		return nil, fmt.Errorf("%w: oauth client credentials are not configured", domain.ErrAuthRequired)
	}

	p.source = cc.TokenSource(context.Background())
	return p.source, nil
}

// Method reports bearer presentation (Authorization header).
func (p *BearerProvider) Method() driven.CredentialMethod {
	return driven.CredentialBearer
}

// IsAuthenticated reports whether the client credentials are
// configured. It does not contact the token endpoint.
func (p *BearerProvider) IsAuthenticated() bool {
	return p.config.GetString(KeyOAuthClientID) != "" &&
		p.config.GetString(KeyOAuthClientSecret) != "" &&
		p.config.GetString(KeyOAuthTokenURL) != ""
}
