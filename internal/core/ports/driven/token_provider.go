package driven

import "context"

// CredentialMethod identifies how the provider credential is presented
// on the wire.
type CredentialMethod string

const (
	// CredentialAPIKey sends the token as an HTTP basic username with
	// an empty password.
	CredentialAPIKey CredentialMethod = "api_key"
	// CredentialBearer sends the token as an OAuth2 bearer.
	CredentialBearer CredentialMethod = "bearer"
	// CredentialNone sends no credential. Only useful against local
	// test doubles.
	CredentialNone CredentialMethod = "none"
)

// TokenProvider supplies the imagery-provider credential per call.
// The credential is injected into each request and never persisted or
// logged by the core; implementations own storage and refresh.
type TokenProvider interface {
	// GetToken returns a currently valid credential.
	// Returns domain.ErrAuthRequired when none is configured.
	GetToken(ctx context.Context) (string, error)

	// Method reports how the credential is presented.
	Method() CredentialMethod

	// IsAuthenticated reports whether a credential is configured,
	// without validating it against the provider.
	IsAuthenticated() bool
}
