package mcp

import (
	"context"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	report  *domain.RetrievalReport
	err     error
	status  domain.RetrievalStatus
	lastReq domain.Request
}

func (m *mockRetriever) Retrieve(_ context.Context, req domain.Request) (*domain.RetrievalReport, error) {
	m.lastReq = req
	return m.report, m.err
}

func (m *mockRetriever) Status() domain.RetrievalStatus {
	return m.status
}

// mockSiteManager is a mock implementation of driving.SiteManager.
type mockSiteManager struct {
	sites []domain.Site
	site  *domain.Site
	err   error
}

func (m *mockSiteManager) Get(_ context.Context, _ string) (*domain.Site, error) {
	return m.site, m.err
}

func (m *mockSiteManager) List(_ context.Context) ([]domain.Site, error) {
	return m.sites, m.err
}

func (m *mockSiteManager) Add(_ context.Context, site domain.Site) (*domain.Site, error) {
	return &site, m.err
}

func (m *mockSiteManager) Remove(_ context.Context, _ string) error {
	return m.err
}
