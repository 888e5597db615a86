package driven

import (
	"context"
	"io"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// ObjectInfo describes one stored object in the destination.
type ObjectInfo struct {
	// Key is the object name within the store.
	Key string

	// Size is the object size in bytes.
	Size int64

	// MD5 is the hex-encoded content digest, empty when the store
	// cannot provide one.
	MD5 string
}

// WriteOptions carries per-write metadata.
type WriteOptions struct {
	// ContentMD5 is the expected hex digest. Stores that verify on
	// write may reject mismatching content at Close.
	ContentMD5 string
}

// AssetStore persists delivered assets in the destination directory.
// Writes are atomic: a partially written object is never observable
// under its final key, even across a crash.
type AssetStore interface {
	// Stat describes an object, or domain.ErrNotFound.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)

	// Write streams r into the object at key. The object appears
	// under key only after a fully successful write.
	Write(ctx context.Context, key string, r io.Reader, opts WriteOptions) error

	// List returns the keys currently in the store, unordered.
	List(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}

// StoreOpener opens the AssetStore backing a request's destination.
// Opening fails with domain.ErrDestinationUnwritable when the
// destination cannot be created or written.
type StoreOpener interface {
	OpenStore(ctx context.Context, destination string) (AssetStore, error)
}

// SiteStore persists the named-site registry.
type SiteStore interface {
	// Get returns a site by name, or domain.ErrNotFound.
	Get(ctx context.Context, name string) (*domain.Site, error)

	// List returns all sites ordered by name.
	List(ctx context.Context) ([]domain.Site, error)

	// Put creates or replaces a site.
	Put(ctx context.Context, site domain.Site) error

	// Delete removes a site by name, or domain.ErrNotFound.
	Delete(ctx context.Context, name string) error
}
