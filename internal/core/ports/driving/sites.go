package driving

import (
	"context"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// SiteManager manages the named-site registry.
type SiteManager interface {
	// Get returns a site by name, or domain.ErrNotFound.
	Get(ctx context.Context, name string) (*domain.Site, error)

	// List returns all registered sites ordered by name.
	List(ctx context.Context) ([]domain.Site, error)

	// Add registers a new site. The polygon is validated and the
	// ring closed if the caller left it open. Returns
	// domain.ErrAlreadyExists for duplicate names.
	Add(ctx context.Context, site domain.Site) (*domain.Site, error)

	// Remove deletes a site by name, or domain.ErrNotFound.
	Remove(ctx context.Context, name string) error
}
