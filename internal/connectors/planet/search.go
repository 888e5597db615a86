package planet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
	"github.com/orbitalworks/scenefetch/internal/geometry"
)

// quickSearchResponse is one page of Data API search results.
type quickSearchResponse struct {
	Links    searchLinks     `json:"_links"`
	Features []searchFeature `json:"features"`
}

// searchLinks carries pagination. Next is a complete URL for the
// following page, empty on the last one.
type searchLinks struct {
	Next string `json:"_next"`
}

// searchFeature is one catalogue item in GeoJSON feature form.
type searchFeature struct {
	ID          string            `json:"id"`
	Geometry    *geojson.Geometry `json:"geometry"`
	Permissions []string          `json:"_permissions"`
	Properties  featureProperties `json:"properties"`
}

type featureProperties struct {
	Acquired   time.Time `json:"acquired"`
	CloudCover float64   `json:"cloud_cover"`
	ItemType   string    `json:"item_type"`
}

// SearchScenes fetches one page of catalogue items matching the query.
// The first page POSTs the filter to quick-search; later pages GET the
// _next URL the previous page returned.
func (c *Client) SearchScenes(ctx context.Context, query driven.SceneQuery) (*driven.ScenePage, error) {
	var (
		req *http.Request
		err error
	)
	if query.PageToken != "" {
		req, err = c.newRequest(ctx, http.MethodGet, query.PageToken, nil)
	} else {
		var body []byte
		body, err = json.Marshal(buildSearchRequest(query))
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		req, err = c.newRequest(ctx, http.MethodPost, c.dataURL+"/quick-search", body)
	}
	if err != nil {
		return nil, err
	}

	var out quickSearchResponse
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("search scenes: %w", err)
	}

	page := &driven.ScenePage{
		Scenes:        make([]domain.SceneRecord, 0, len(out.Features)),
		NextPageToken: out.Links.Next,
	}
	for _, f := range out.Features {
		page.Scenes = append(page.Scenes, toRecord(f))
	}
	return page, nil
}

// toRecord converts a catalogue feature to a scene record. Footprints
// arrive as GeoJSON polygons; other geometry kinds (and missing
// geometry) leave the footprint empty.
func toRecord(f searchFeature) domain.SceneRecord {
	record := domain.SceneRecord{
		SceneID:     f.ID,
		AcquiredAt:  f.Properties.Acquired,
		CloudCover:  f.Properties.CloudCover,
		ItemType:    f.Properties.ItemType,
		Permissions: f.Permissions,
	}
	if f.Geometry != nil {
		if poly, ok := f.Geometry.Geometry().(orb.Polygon); ok && len(poly) > 0 {
			record.Footprint = geometry.FromOrb(poly[0])
		}
	}
	return record
}
