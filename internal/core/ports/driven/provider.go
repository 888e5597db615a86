package driven

import (
	"context"
	"errors"
	"io"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// SceneQuery describes one search page request against the provider
// catalogue. The AOI, window and filters stay constant across pages of
// the same search; only PageToken advances.
type SceneQuery struct {
	// AOI is the normalized area of interest.
	AOI domain.AOI

	// Window is the inclusive acquisition-date range for this search.
	Window domain.DateWindow

	// ItemType is the catalogue to search.
	ItemType string

	// MaxCloudCover is the cloud-fraction ceiling in [0,1].
	MaxCloudCover float64

	// PageToken requests a specific page. Empty for the first page;
	// subsequent values come from ScenePage.NextPageToken.
	PageToken string
}

// ScenePage is one page of search results.
type ScenePage struct {
	// Scenes are the records on this page, provider order.
	Scenes []domain.SceneRecord

	// NextPageToken requests the following page. Empty on the last page.
	NextPageToken string
}

// ImageryProvider is the remote imagery API: an asynchronous
// order/fulfillment workflow of search, order, poll and download.
// Implementations handle authentication, rate limiting and wire
// formats; retry policy belongs to the core services.
type ImageryProvider interface {
	// SearchScenes fetches one page of scenes matching the query.
	// Transient provider failures (throttling, 5xx, network) return
	// errors classified retryable via IsRetryable; malformed queries
	// return errors wrapping domain.ErrInvalidRequest.
	SearchScenes(ctx context.Context, query SceneQuery) (*ScenePage, error)

	// SubmitOrder submits an order and returns the provider order ID.
	SubmitOrder(ctx context.Context, order domain.OrderRequest) (string, error)

	// PollOrder fetches the current state of a submitted order,
	// including ready deliverables once the order completes.
	PollOrder(ctx context.Context, orderID string) (*domain.OrderSnapshot, error)

	// DownloadAsset opens a stream for one deliverable. The caller
	// must close the reader. Size is -1 when unknown.
	DownloadAsset(ctx context.Context, asset domain.AssetDescriptor) (io.ReadCloser, int64, error)

	// Close releases resources.
	Close() error
}

// CredentialValidator is implemented by providers that can check the
// configured credential with a cheap authenticated call.
type CredentialValidator interface {
	// Validate returns nil when the provider accepts the credential,
	// domain.ErrAuthInvalid when it rejects it, and an error wrapping
	// domain.ErrAuthRequired when the check could not be made.
	Validate(ctx context.Context) error
}

// retryable is implemented by provider errors that classify themselves.
type retryable interface {
	Retryable() bool
}

// noAccess is implemented by submission errors that name the scenes the
// credential cannot order.
type noAccess interface {
	NoAccessSceneIDs() []string
}

// NoAccessScenes extracts the scene IDs an order submission was rejected
// for. Returns the IDs and true when the error names them; the caller
// can drop those scenes and resubmit the remainder.
func NoAccessScenes(err error) ([]string, bool) {
	var na noAccess
	if errors.As(err, &na) {
		ids := na.NoAccessSceneIDs()
		if len(ids) > 0 {
			return ids, true
		}
	}
	return nil, false
}

// IsRetryable reports whether a provider error is worth retrying.
// Self-classifying errors decide for themselves. Otherwise permanent
// rejections (malformed request, bad credential) and context
// cancellation are final; anything else, including plain transport
// failures, gets the benefit of the retry budget.
func IsRetryable(err error) bool {
	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrAuthRequired),
		errors.Is(err, domain.ErrAuthInvalid):
		return false
	}
	return true
}
