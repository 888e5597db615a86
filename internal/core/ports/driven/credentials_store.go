package driven

// CredentialWriter persists the provider credential for future runs.
// The stored credential is read back through a TokenProvider; the
// retrieval pipeline itself never sees or stores it.
type CredentialWriter interface {
	// SaveAPIKey stores the provider API key and makes api_key the
	// active credential method.
	SaveAPIKey(key string) error

	// Clear removes any stored credential.
	Clear() error
}
