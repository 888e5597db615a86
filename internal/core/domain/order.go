package domain

import (
	"path"
	"strings"
)

// MaxScenesPerOrder is the provider's per-order item limit. Requests
// matching more scenes are partitioned into multiple orders.
const MaxScenesPerOrder = 500

// MaxClipVertices is the provider's vertex limit on clip geometry.
// Larger rings are simplified before ordering.
const MaxClipVertices = 500

// OrderStatus is the provider-reported state of a submitted order.
// Mutated only from provider poll responses, never inferred locally.
type OrderStatus string

const (
	// OrderQueued means the order is accepted and waiting to run.
	OrderQueued OrderStatus = "queued"
	// OrderRunning means the provider is preparing deliverables.
	OrderRunning OrderStatus = "running"
	// OrderSucceeded means every deliverable is ready for download.
	OrderSucceeded OrderStatus = "success"
	// OrderPartial means some deliverables are ready and the rest
	// permanently failed. A normal outcome, not an error.
	OrderPartial OrderStatus = "partial"
	// OrderFailed means the provider abandoned the order.
	OrderFailed OrderStatus = "failed"
	// OrderCancelled means the order was cancelled before completion.
	OrderCancelled OrderStatus = "cancelled"
)

// Terminal reports whether the status is final. Polling stops at the
// first terminal status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderSucceeded, OrderPartial, OrderFailed, OrderCancelled:
		return true
	}
	return false
}

// Delivered reports whether the status implies at least some
// deliverables may be ready.
func (s OrderStatus) Delivered() bool {
	return s == OrderSucceeded || s == OrderPartial
}

// OrderRequest is one order to be submitted to the provider: a batch of
// scene IDs plus the processing tools applied to them. Built by the order
// assembler; one Request may yield several OrderRequests.
type OrderRequest struct {
	// LocalID correlates the order across logs, status and report
	// before the provider assigns its own ID.
	LocalID string

	// Name is the provider-visible order name.
	Name string

	// SceneIDs are the scenes in this batch, in canonical order
	// (acquisition time ascending, ties by scene ID).
	SceneIDs []string

	// ItemType is the catalogue the scenes belong to.
	ItemType string

	// Bundle is the product bundle to deliver.
	Bundle string

	// Clip is the geometry deliverables are clipped to.
	Clip Ring

	// ClipSimplified records that Clip was simplified to fit the
	// provider's vertex limit. Surfaced in the report, never silent.
	ClipSimplified bool

	// ClipOriginalVertices is the vertex count before simplification.
	// Zero when ClipSimplified is false.
	ClipOriginalVertices int
}

// OrderSnapshot is one poll observation of a submitted order.
type OrderSnapshot struct {
	// OrderID is the provider-assigned order identifier.
	OrderID string

	// Status is the provider-reported state.
	Status OrderStatus

	// Assets lists ready deliverables. Populated only once the order
	// reaches a delivered state.
	Assets []AssetDescriptor

	// Message carries the provider's human-readable state detail,
	// when given.
	Message string
}

// AssetDescriptor is one downloadable deliverable of a fulfilled order.
// Created when the provider marks results ready; discarded after a
// successful write to the destination store.
type AssetDescriptor struct {
	// OrderID is the provider order this asset belongs to.
	OrderID string

	// SceneID is the scene the asset derives from, when the delivery
	// name identifies one. Empty for order-level manifests.
	SceneID string

	// Name is the provider's delivery name, usually path-like.
	Name string

	// DownloadURL is the expiring location to fetch the asset from.
	DownloadURL string

	// Size is the asset size in bytes, zero when unreported.
	Size int64

	// Checksum is the provider-reported hex MD5, empty when unreported.
	Checksum string
}

// Filename returns the local filename for the asset: the final segment
// of the provider's delivery name.
func (a AssetDescriptor) Filename() string {
	return path.Base(a.Name)
}

// deliverableExtensions are the asset kinds worth persisting: imagery,
// metadata and usable-data masks. Everything else in an order's results
// (manifests, checksum sidecars) is ignored.
var deliverableExtensions = []string{".tif", ".json", ".xml"}

// Deliverable reports whether the asset is a kind scenefetch persists.
func (a AssetDescriptor) Deliverable() bool {
	name := strings.ToLower(a.Filename())
	for _, ext := range deliverableExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
