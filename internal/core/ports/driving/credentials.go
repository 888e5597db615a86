package driving

import (
	"context"
)

// AuthStatus describes the configured provider credential and whether
// the provider currently accepts it.
type AuthStatus struct {
	// Method is how the credential is presented: "api_key", "bearer"
	// or "none".
	Method string

	// Configured reports whether a credential is present at all.
	Configured bool

	// Valid reports whether the provider accepted the credential.
	// Always false when not configured.
	Valid bool

	// Detail carries the rejection reason when Configured && !Valid.
	Detail string
}

// CredentialManager manages the stored provider credential. The
// credential value itself never travels further than the config store
// and the provider adapter.
type CredentialManager interface {
	// SaveAPIKey validates shape and stores the provider API key.
	SaveAPIKey(ctx context.Context, key string) error

	// Status reports the credential's presence and whether the
	// provider accepts it. Provider rejection lands in the status,
	// not the error.
	Status(ctx context.Context) (AuthStatus, error)

	// Clear removes the stored credential.
	Clear(ctx context.Context) error
}
