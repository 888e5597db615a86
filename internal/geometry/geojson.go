package geometry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// ParseGeoJSON extracts a request ring from a GeoJSON document. The
// document may be a FeatureCollection, a Feature or a bare geometry;
// the exterior ring of the first Polygon (or first MultiPolygon
// member) wins. Interior rings are ignored. The result is raw, not
// normalized; pass it through a site or retrieval service before use.
func ParseGeoJSON(data []byte) (domain.Ring, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: not a GeoJSON document: %v", domain.ErrInvalidGeometry, err)
	}

	var geoms []orb.Geometry
	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidGeometry, err)
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidGeometry, err)
		}
		geoms = append(geoms, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidGeometry, err)
		}
		geoms = append(geoms, g.Geometry())
	}

	for _, g := range geoms {
		if ring, ok := exteriorRing(g); ok {
			return ring, nil
		}
	}
	return nil, fmt.Errorf("%w: document contains no polygon", domain.ErrInvalidGeometry)
}

// ReadGeoJSONFile reads path and parses it with ParseGeoJSON.
func ReadGeoJSONFile(path string) (domain.Ring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ring, err := ParseGeoJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ring, nil
}

// ToGeoJSON renders a ring as a GeoJSON Polygon geometry, the shape
// hand-drawn AOIs travel in.
func ToGeoJSON(ring domain.Ring) ([]byte, error) {
	poly := orb.Polygon{ToOrb(ring)}
	data, err := geojson.NewGeometry(poly).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	return data, nil
}

func exteriorRing(g orb.Geometry) (domain.Ring, bool) {
	switch poly := g.(type) {
	case orb.Polygon:
		if len(poly) > 0 && len(poly[0]) > 0 {
			return FromOrb(poly[0]), true
		}
	case orb.MultiPolygon:
		if len(poly) > 0 && len(poly[0]) > 0 && len(poly[0][0]) > 0 {
			return FromOrb(poly[0][0]), true
		}
	}
	return nil, false
}
