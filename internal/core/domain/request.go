package domain

import "fmt"

// Default request parameters. Mirrors the provider's PlanetScope
// conventions; overridable per request.
const (
	// DefaultItemType is the provider catalogue to search.
	DefaultItemType = "PSScene"

	// DefaultBundle is the product bundle ordered for each scene.
	DefaultBundle = "analytic"

	// DefaultMaxCloudCover is the cloud-cover ceiling applied at search.
	DefaultMaxCloudCover = 0.3
)

// Request describes one imagery retrieval: which area, over which dates,
// delivered where. Owned by the pipeline coordinator for the duration of
// a single Retrieve call.
type Request struct {
	// SiteName labels the request. Used in provider order names,
	// delivered filenames and the report. Required.
	SiteName string

	// AOI is the area-of-interest polygon as provided by the caller.
	// Normalized (closed, wound, validated) before any provider call.
	AOI Ring

	// Window is the inclusive acquisition-date range.
	Window DateWindow

	// Destination is the directory delivered assets are written to.
	// The only state that persists across retrievals.
	Destination string

	// MaxCloudCover is the cloud-cover ceiling in [0,1].
	// Zero means DefaultMaxCloudCover.
	MaxCloudCover float64

	// ItemType is the provider catalogue to search.
	// Empty means DefaultItemType.
	ItemType string

	// Bundle is the product bundle to order.
	// Empty means DefaultBundle.
	Bundle string
}

// Validate checks request fields that do not require geometry analysis.
// Polygon validity is the geometry normalizer's concern.
func (r *Request) Validate() error {
	if r.SiteName == "" {
		return fmt.Errorf("%w: site name is required", ErrInvalidRequest)
	}
	if len(r.AOI) == 0 {
		return fmt.Errorf("%w: polygon is required", ErrInvalidGeometry)
	}
	if r.Destination == "" {
		return fmt.Errorf("%w: destination directory is required", ErrInvalidRequest)
	}
	if r.MaxCloudCover < 0 || r.MaxCloudCover > 1 {
		return fmt.Errorf("%w: cloud cover %v outside [0,1]", ErrInvalidRequest, r.MaxCloudCover)
	}
	return r.Window.Validate()
}

// CloudCover returns the effective cloud-cover ceiling.
func (r *Request) CloudCover() float64 {
	if r.MaxCloudCover == 0 {
		return DefaultMaxCloudCover
	}
	return r.MaxCloudCover
}

// EffectiveItemType returns the catalogue to search.
func (r *Request) EffectiveItemType() string {
	if r.ItemType == "" {
		return DefaultItemType
	}
	return r.ItemType
}

// EffectiveBundle returns the product bundle to order, applying the
// provider's pairing rule: the analytic bundle for PSScene items is
// delivered with its usable-data mask.
func (r *Request) EffectiveBundle() string {
	bundle := r.Bundle
	if bundle == "" {
		bundle = DefaultBundle
	}
	if bundle == DefaultBundle && r.EffectiveItemType() == DefaultItemType {
		return "analytic_udm2"
	}
	return bundle
}
