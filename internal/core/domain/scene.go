package domain

import (
	"sort"
	"strings"
	"time"
)

// testSatelliteSuffixes identify scenes captured by the provider's test
// satellites. Their imagery is not radiometrically reliable and is
// excluded from retrieval.
var testSatelliteSuffixes = []string{"0f02", "0f06", "0f4c", "1055"}

// SceneRecord is one imagery scene discovered by search. Immutable once
// built from a provider response; deduplicated by SceneID across pages.
type SceneRecord struct {
	// SceneID is the provider's unique scene identifier.
	SceneID string

	// AcquiredAt is the acquisition instant (UTC).
	AcquiredAt time.Time

	// Footprint is the provider-reported scene footprint.
	// May be empty when the provider omits geometry.
	Footprint Ring

	// CloudCover is the reported cloud fraction in [0,1].
	CloudCover float64

	// ItemType is the catalogue the scene belongs to.
	ItemType string

	// Permissions are the provider-reported access grants on the scene.
	Permissions []string
}

// FromTestSatellite reports whether the scene was captured by a test
// satellite, identified by the satellite ID suffix of the scene ID.
func (s SceneRecord) FromTestSatellite() bool {
	for _, suffix := range testSatelliteSuffixes {
		if strings.HasSuffix(s.SceneID, suffix) {
			return true
		}
	}
	return false
}

// SortScenes orders scenes by acquisition time ascending, ties broken by
// SceneID. This is the canonical ordering for batching, so identical
// search results always produce identical orders.
func SortScenes(scenes []SceneRecord) {
	sort.Slice(scenes, func(i, j int) bool {
		if !scenes[i].AcquiredAt.Equal(scenes[j].AcquiredAt) {
			return scenes[i].AcquiredAt.Before(scenes[j].AcquiredAt)
		}
		return scenes[i].SceneID < scenes[j].SceneID
	})
}
