// Package auth supplies imagery-provider credentials to the connector.
//
// Two providers are available: APIKeyProvider reads a static API key
// from the environment or the config file, and BearerProvider drives
// the OAuth2 client credentials grant for deployments fronted by an
// identity provider. Selection lives in the config under "auth.method".
// Credentials are handed out per call and never logged.
package auth

import (
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Config keys for credential storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyMethod            = "auth.method"
	KeyAPIKey            = "auth.api_key"
	KeyOAuthTokenURL     = "auth.oauth.token_url"
	KeyOAuthClientID     = "auth.oauth.client_id"
	KeyOAuthClientSecret = "auth.oauth.client_secret"
)

const (
	// MethodAPIKey selects the static API key provider.
	MethodAPIKey = "api_key"
	// MethodOAuth selects the OAuth2 client-credentials provider.
	MethodOAuth = "oauth"
)

// EnvAPIKey is the conventional environment variable for the provider
// API key. It overrides the stored key.
const EnvAPIKey = "PL_API_KEY"

// FromConfig selects the credential provider the configuration names:
// "oauth" for client-credentials bearer tokens, anything else defaults
// to the API key provider.
func FromConfig(config driven.ConfigStore) driven.TokenProvider {
	if config.GetString(KeyMethod) == MethodOAuth {
		return NewBearerProvider(config)
	}
	return NewAPIKeyProvider(config)
}
