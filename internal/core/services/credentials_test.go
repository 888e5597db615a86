package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// mockWriter records credential writes.
type mockWriter struct {
	savedKey string
	saves    int
	clears   int
	err      error
}

func (w *mockWriter) SaveAPIKey(key string) error {
	w.saves++
	w.savedKey = key
	return w.err
}

func (w *mockWriter) Clear() error {
	w.clears++
	return w.err
}

// mockValidator scripts the provider's credential check.
type mockValidator struct {
	err   error
	calls int
}

func (v *mockValidator) Validate(_ context.Context) error {
	v.calls++
	return v.err
}

func TestCredentialService_SaveAPIKey(t *testing.T) {
	t.Run("stores trimmed key", func(t *testing.T) {
		writer := &mockWriter{}
		svc := NewCredentialService(writer, &mockTokens{}, &mockValidator{})

		require.NoError(t, svc.SaveAPIKey(context.Background(), "  pk-live-key \n"))
		assert.Equal(t, "pk-live-key", writer.savedKey)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		writer := &mockWriter{}
		svc := NewCredentialService(writer, &mockTokens{}, &mockValidator{})

		err := svc.SaveAPIKey(context.Background(), "   ")
		require.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Zero(t, writer.saves)
	})

	t.Run("wraps writer failure", func(t *testing.T) {
		writer := &mockWriter{err: errors.New("disk full")}
		svc := NewCredentialService(writer, &mockTokens{}, &mockValidator{})

		err := svc.SaveAPIKey(context.Background(), "pk-live-key")
		require.Error(t, err)
		assert.ErrorContains(t, err, "save credential")
	})
}

func TestCredentialService_Status(t *testing.T) {
	t.Run("unconfigured skips the provider", func(t *testing.T) {
		validator := &mockValidator{}
		svc := NewCredentialService(&mockWriter{}, &mockTokens{authenticated: false}, validator)

		status, err := svc.Status(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "api_key", status.Method)
		assert.False(t, status.Configured)
		assert.False(t, status.Valid)
		assert.Zero(t, validator.calls)
	})

	t.Run("accepted credential is valid", func(t *testing.T) {
		svc := NewCredentialService(&mockWriter{},
			&mockTokens{token: "pk", authenticated: true}, &mockValidator{})

		status, err := svc.Status(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Configured)
		assert.True(t, status.Valid)
		assert.Empty(t, status.Detail)
	})

	t.Run("rejected credential carries detail", func(t *testing.T) {
		validator := &mockValidator{err: domain.ErrAuthInvalid}
		svc := NewCredentialService(&mockWriter{},
			&mockTokens{token: "pk", authenticated: true}, validator)

		status, err := svc.Status(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Configured)
		assert.False(t, status.Valid)
		assert.Contains(t, status.Detail, domain.ErrAuthInvalid.Error())
	})
}

func TestCredentialService_Clear(t *testing.T) {
	t.Run("clears stored credential", func(t *testing.T) {
		writer := &mockWriter{}
		svc := NewCredentialService(writer, &mockTokens{}, &mockValidator{})

		require.NoError(t, svc.Clear(context.Background()))
		assert.Equal(t, 1, writer.clears)
	})

	t.Run("wraps writer failure", func(t *testing.T) {
		writer := &mockWriter{err: errors.New("read-only config")}
		svc := NewCredentialService(writer, &mockTokens{}, &mockValidator{})

		err := svc.Clear(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, "clear credential")
	})
}
