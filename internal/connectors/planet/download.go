package planet

import (
	"context"
	"fmt"
	"io"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// DownloadAsset opens a stream for one deliverable. Delivery locations
// are signed URLs: the request carries no credential and the body
// streams without a client timeout, cancellation comes from the
// context. The caller must close the reader.
func (c *Client) DownloadAsset(ctx context.Context, asset domain.AssetDescriptor) (io.ReadCloser, int64, error) {
	if asset.DownloadURL == "" {
		return nil, 0, fmt.Errorf("%w: asset %q has no download location", domain.ErrInvalidRequest, asset.Name)
	}
	return c.openDownload(ctx, asset.DownloadURL)
}
