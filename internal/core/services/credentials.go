package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driving"
)

// Ensure CredentialService implements the interface.
var _ driving.CredentialManager = (*CredentialService)(nil)

// CredentialService manages the stored provider credential. Storage is
// delegated to the writer; validation is delegated to the provider.
type CredentialService struct {
	writer    driven.CredentialWriter
	tokens    driven.TokenProvider
	validator driven.CredentialValidator
}

// NewCredentialService creates a credential manager.
func NewCredentialService(
	writer driven.CredentialWriter,
	tokens driven.TokenProvider,
	validator driven.CredentialValidator,
) *CredentialService {
	return &CredentialService{
		writer:    writer,
		tokens:    tokens,
		validator: validator,
	}
}

// SaveAPIKey stores the provider API key.
func (s *CredentialService) SaveAPIKey(_ context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: API key is empty", domain.ErrInvalidRequest)
	}
	if err := s.writer.SaveAPIKey(key); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Status reports the credential's presence and validity.
func (s *CredentialService) Status(ctx context.Context) (driving.AuthStatus, error) {
	status := driving.AuthStatus{
		Method:     string(s.tokens.Method()),
		Configured: s.tokens.IsAuthenticated(),
	}
	if !status.Configured {
		return status, nil
	}

	if err := s.validator.Validate(ctx); err != nil {
		status.Detail = err.Error()
		return status, nil
	}

	status.Valid = true
	return status, nil
}

// Clear removes the stored credential.
func (s *CredentialService) Clear(_ context.Context) error {
	if err := s.writer.Clear(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
