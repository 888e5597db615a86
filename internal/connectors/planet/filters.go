package planet

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
	"github.com/orbitalworks/scenefetch/internal/geometry"
)

// timestampLayout is the Data API timestamp format, millisecond
// precision with a literal Z.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// searchRequest is the quick-search request body.
type searchRequest struct {
	ItemTypes []string `json:"item_types"`
	Filter    any      `json:"filter"`
}

// andFilter combines sub-filters, all of which must match.
type andFilter struct {
	Type   string `json:"type"`
	Config []any  `json:"config"`
}

// objectFilter is the common shape of field-scoped filters: geometry,
// date range and numeric range filters all carry a field name and a
// type-specific config.
type objectFilter struct {
	Type      string `json:"type"`
	FieldName string `json:"field_name"`
	Config    any    `json:"config"`
}

// dateRangeConfig bounds a timestamp field. Zero bounds are omitted.
type dateRangeConfig struct {
	GTE string `json:"gte,omitempty"`
	LTE string `json:"lte,omitempty"`
}

// rangeConfig bounds a numeric field from above.
type rangeConfig struct {
	LTE float64 `json:"lte"`
}

// buildSearchRequest translates a scene query into the quick-search
// body: one AndFilter over geometry, acquisition window and cloud
// cover.
func buildSearchRequest(query driven.SceneQuery) searchRequest {
	filters := []any{
		objectFilter{
			Type:      "GeometryFilter",
			FieldName: "geometry",
			Config:    geojson.NewGeometry(orb.Polygon{geometry.ToOrb(query.AOI.Ring)}),
		},
		objectFilter{
			Type:      "DateRangeFilter",
			FieldName: "acquired",
			Config: dateRangeConfig{
				GTE: query.Window.LowerBound().UTC().Format(timestampLayout),
				LTE: query.Window.UpperBound().UTC().Format(timestampLayout),
			},
		},
	}
	if query.MaxCloudCover > 0 {
		filters = append(filters, objectFilter{
			Type:      "RangeFilter",
			FieldName: "cloud_cover",
			Config:    rangeConfig{LTE: query.MaxCloudCover},
		})
	}
	return searchRequest{
		ItemTypes: []string{query.ItemType},
		Filter:    andFilter{Type: "AndFilter", Config: filters},
	}
}
