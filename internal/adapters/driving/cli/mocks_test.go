package cli

import (
	"context"
	"sync"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driving"
)

// mockRetriever implements driving.Retriever for testing.
type mockRetriever struct {
	mu      sync.Mutex
	report  *domain.RetrievalReport
	err     error
	status  domain.RetrievalStatus
	lastReq domain.Request
}

func (m *mockRetriever) Retrieve(_ context.Context, req domain.Request) (*domain.RetrievalReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReq = req
	return m.report, m.err
}

func (m *mockRetriever) Status() domain.RetrievalStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *mockRetriever) LastRequest() domain.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}

// mockSiteManager implements driving.SiteManager for testing.
type mockSiteManager struct {
	sites   []domain.Site
	site    *domain.Site
	err     error
	added   *domain.Site
	removed string
}

func (m *mockSiteManager) Get(_ context.Context, _ string) (*domain.Site, error) {
	return m.site, m.err
}

func (m *mockSiteManager) List(_ context.Context) ([]domain.Site, error) {
	return m.sites, m.err
}

func (m *mockSiteManager) Add(_ context.Context, site domain.Site) (*domain.Site, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.added = &site
	return &site, nil
}

func (m *mockSiteManager) Remove(_ context.Context, name string) error {
	m.removed = name
	return m.err
}

// mockCredentialManager implements driving.CredentialManager for testing.
type mockCredentialManager struct {
	savedKey  string
	saveErr   error
	status    driving.AuthStatus
	statusErr error
	cleared   bool
	clearErr  error
}

func (m *mockCredentialManager) SaveAPIKey(_ context.Context, key string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedKey = key
	return nil
}

func (m *mockCredentialManager) Status(_ context.Context) (driving.AuthStatus, error) {
	return m.status, m.statusErr
}

func (m *mockCredentialManager) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	return nil
}
