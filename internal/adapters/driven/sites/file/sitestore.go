// Package file persists the named-site registry as a YAML document in
// the scenefetch config directory. The file is plain YAML so operators
// can review or hand-edit their sites.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Ensure SiteStore implements the interface.
var _ driven.SiteStore = (*SiteStore)(nil)

// SiteStore is a YAML-file-backed implementation of driven.SiteStore.
type SiteStore struct {
	mu       sync.RWMutex
	filePath string
	sites    map[string]domain.Site
}

// NewSiteStore creates a site store backed by a YAML registry file.
// If configDir is empty, defaults to ~/.scenefetch/sites.yaml.
func NewSiteStore(configDir string) (*SiteStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".scenefetch")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &SiteStore{
		filePath: filepath.Join(configDir, "sites.yaml"),
		sites:    make(map[string]domain.Site),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Get returns a site by name.
func (s *SiteStore) Get(_ context.Context, name string) (*domain.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	site, ok := s.sites[name]
	if !ok {
		return nil, fmt.Errorf("%w: site %q", domain.ErrNotFound, name)
	}

	site.AOI = site.AOI.Clone()
	return &site, nil
}

// List returns all sites ordered by name.
func (s *SiteStore) List(_ context.Context) ([]domain.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Site, 0, len(s.sites))
	for _, site := range s.sites {
		site.AOI = site.AOI.Clone()
		out = append(out, site)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Put creates or replaces a site.
func (s *SiteStore) Put(_ context.Context, site domain.Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	site.AOI = site.AOI.Clone()
	s.sites[site.Name] = site
	return s.save()
}

// Delete removes a site by name.
func (s *SiteStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sites[name]; !ok {
		return fmt.Errorf("%w: site %q", domain.ErrNotFound, name)
	}

	delete(s.sites, name)
	return s.save()
}

// registryFile is the on-disk YAML document.
type registryFile struct {
	Sites []siteRecord `yaml:"sites"`
}

type siteRecord struct {
	Name      string        `yaml:"name"`
	Notes     string        `yaml:"notes,omitempty"`
	AOI       []pointRecord `yaml:"aoi"`
	CreatedAt time.Time     `yaml:"created_at"`
	UpdatedAt time.Time     `yaml:"updated_at"`
}

type pointRecord struct {
	Lon float64 `yaml:"lon"`
	Lat float64 `yaml:"lat"`
}

// load reads the registry file into memory.
func (s *SiteStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var doc registryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}

	s.sites = make(map[string]domain.Site, len(doc.Sites))
	for _, rec := range doc.Sites {
		s.sites[rec.Name] = fromRecord(rec)
	}
	return nil
}

// save writes the registry back out, sites ordered by name so the file
// stays diffable.
func (s *SiteStore) save() error {
	doc := registryFile{Sites: make([]siteRecord, 0, len(s.sites))}
	for _, site := range s.sites {
		doc.Sites = append(doc.Sites, toRecord(site))
	}
	sort.Slice(doc.Sites, func(i, j int) bool {
		return doc.Sites[i].Name < doc.Sites[j].Name
	})

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode sites: %w", err)
	}

	return os.WriteFile(s.filePath, data, 0644)
}

func toRecord(site domain.Site) siteRecord {
	rec := siteRecord{
		Name:      site.Name,
		Notes:     site.Notes,
		AOI:       make([]pointRecord, len(site.AOI)),
		CreatedAt: site.CreatedAt,
		UpdatedAt: site.UpdatedAt,
	}
	for i, pt := range site.AOI {
		rec.AOI[i] = pointRecord{Lon: pt.Lon, Lat: pt.Lat}
	}
	return rec
}

func fromRecord(rec siteRecord) domain.Site {
	site := domain.Site{
		Name:      rec.Name,
		Notes:     rec.Notes,
		AOI:       make(domain.Ring, len(rec.AOI)),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	for i, pt := range rec.AOI {
		site.AOI[i] = domain.Point{Lon: pt.Lon, Lat: pt.Lat}
	}
	return site
}
