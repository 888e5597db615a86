package auth

import (
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Ensure ConfigWriter implements the CredentialWriter interface.
var _ driven.CredentialWriter = (*ConfigWriter)(nil)

// ConfigWriter persists credentials into the config store under the
// auth.* keys the token providers read back.
type ConfigWriter struct {
	config driven.ConfigStore
}

// NewConfigWriter creates a credential writer over the config store.
func NewConfigWriter(config driven.ConfigStore) *ConfigWriter {
	return &ConfigWriter{config: config}
}

// SaveAPIKey stores the API key and selects the api_key method.
func (w *ConfigWriter) SaveAPIKey(key string) error {
	if err := w.config.Set(KeyAPIKey, key); err != nil {
		return err
	}
	return w.config.Set(KeyMethod, MethodAPIKey)
}

// Clear blanks every stored credential field.
func (w *ConfigWriter) Clear() error {
	keys := []string{
		KeyAPIKey,
		KeyOAuthTokenURL,
		KeyOAuthClientID,
		KeyOAuthClientSecret,
		KeyMethod,
	}
	for _, key := range keys {
		if err := w.config.Set(key, ""); err != nil {
			return err
		}
	}
	return nil
}
