package blobstore

import (
	"context"
	"fmt"
	"path/filepath"

	"gocloud.dev/blob/fileblob"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Ensure Opener implements the interface.
var _ driven.StoreOpener = (*Opener)(nil)

// Opener opens file-backed asset stores rooted at request destinations.
type Opener struct{}

// NewOpener creates a destination opener.
func NewOpener() *Opener {
	return &Opener{}
}

// OpenStore opens the destination directory as a bucket, creating it
// when missing. Metadata sidecar files are suppressed so the directory
// holds nothing but the delivered files. Destinations that cannot be
// created map to ErrDestinationUnwritable.
func (o *Opener) OpenStore(_ context.Context, destination string) (driven.AssetStore, error) {
	if destination == "" {
		return nil, fmt.Errorf("%w: empty destination", domain.ErrDestinationUnwritable)
	}
	abs, err := filepath.Abs(destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDestinationUnwritable, destination, err)
	}

	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{
		CreateDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDestinationUnwritable, destination, err)
	}
	return NewStore(bucket), nil
}
