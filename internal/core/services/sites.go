package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driving"
	"github.com/orbitalworks/scenefetch/internal/geometry"
)

// Ensure SiteService implements the interface.
var _ driving.SiteManager = (*SiteService)(nil)

// siteNamePattern keeps site names usable in order names and filenames.
var siteNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// SiteService manages the named-site registry.
type SiteService struct {
	store driven.SiteStore
	clock driven.Clock
}

// NewSiteService creates a site manager over the given store.
func NewSiteService(store driven.SiteStore, clock driven.Clock) *SiteService {
	return &SiteService{
		store: store,
		clock: clock,
	}
}

// Get returns a site by name.
func (s *SiteService) Get(ctx context.Context, name string) (*domain.Site, error) {
	return s.store.Get(ctx, name)
}

// List returns all registered sites ordered by name.
func (s *SiteService) List(ctx context.Context) ([]domain.Site, error) {
	return s.store.List(ctx)
}

// Add registers a new site. An open polygon ring is closed on the
// caller's behalf; everything else about the geometry must already be
// valid.
func (s *SiteService) Add(ctx context.Context, site domain.Site) (*domain.Site, error) {
	if !siteNamePattern.MatchString(site.Name) {
		return nil, fmt.Errorf("%w: site name %q (want lowercase letters, digits, - or _)",
			domain.ErrInvalidRequest, site.Name)
	}

	if _, err := s.store.Get(ctx, site.Name); err == nil {
		return nil, fmt.Errorf("%w: site %q", domain.ErrAlreadyExists, site.Name)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check site: %w", err)
	}

	ring := site.AOI.Clone()
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	aoi, err := geometry.Normalize(ring)
	if err != nil {
		return nil, err
	}
	site.AOI = aoi.Ring

	now := s.clock.Now()
	site.CreatedAt = now
	site.UpdatedAt = now
	if err := s.store.Put(ctx, site); err != nil {
		return nil, fmt.Errorf("save site: %w", err)
	}
	return &site, nil
}

// Remove deletes a site by name.
func (s *SiteService) Remove(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}
