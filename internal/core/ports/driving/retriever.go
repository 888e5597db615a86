package driving

import (
	"context"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// Retriever runs the imagery retrieval pipeline: search the provider
// for scenes covering a polygon and date window, order them, wait for
// fulfillment and download the deliverables.
type Retriever interface {
	// Retrieve executes one retrieval end to end. The report is
	// returned whenever the pipeline ran, including runs where every
	// scene failed; per-scene outcomes live in the report, not the
	// error. A non-nil error means the request itself was unusable
	// (bad geometry, bad dates, unwritable destination, missing
	// credential) or the search never completed.
	Retrieve(ctx context.Context, req domain.Request) (*domain.RetrievalReport, error)

	// Status returns a point-in-time progress snapshot. Safe to call
	// concurrently with Retrieve; used by progress displays.
	Status() domain.RetrievalStatus
}
