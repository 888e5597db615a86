package geometry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// TestParseGeoJSON_BareGeometry tests a plain Polygon geometry
func TestParseGeoJSON_BareGeometry(t *testing.T) {
	doc := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`

	ring, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, ring, 5)
	assert.Equal(t, domain.Point{Lon: 0, Lat: 0}, ring[0])
	assert.Equal(t, domain.Point{Lon: 1, Lat: 1}, ring[2])
}

// TestParseGeoJSON_Feature tests a Feature wrapper
func TestParseGeoJSON_Feature(t *testing.T) {
	doc := `{
		"type": "Feature",
		"properties": {"name": "jekyll island"},
		"geometry": {"type":"Polygon","coordinates":[[[-81.5,31.0],[-81.3,31.0],[-81.3,31.2],[-81.5,31.2],[-81.5,31.0]]]}
	}`

	ring, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, ring, 5)
	assert.Equal(t, -81.5, ring[0].Lon)
	assert.Equal(t, 31.0, ring[0].Lat)
}

// TestParseGeoJSON_FeatureCollection tests that the first polygon wins
func TestParseGeoJSON_FeatureCollection(t *testing.T) {
	// A point feature first; the parser must skip it and take the
	// polygon that follows.
	doc := `{
		"type": "FeatureCollection",
		"features": [
			{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[5,5]}},
			{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[2,2],[3,2],[3,3],[2,3],[2,2]]]}},
			{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[8,8],[9,8],[9,9],[8,9],[8,8]]]}}
		]
	}`

	ring, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, domain.Point{Lon: 2, Lat: 2}, ring[0])
}

// TestParseGeoJSON_MultiPolygon tests the first member's exterior
func TestParseGeoJSON_MultiPolygon(t *testing.T) {
	doc := `{"type":"MultiPolygon","coordinates":[
		[[[0,0],[1,0],[1,1],[0,1],[0,0]],[[0.2,0.2],[0.8,0.2],[0.8,0.8],[0.2,0.8],[0.2,0.2]]],
		[[[4,4],[5,4],[5,5],[4,5],[4,4]]]
	]}`

	ring, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)
	// First polygon's exterior only; the hole is dropped.
	assert.Len(t, ring, 5)
	assert.Equal(t, domain.Point{Lon: 0, Lat: 0}, ring[0])
}

// TestParseGeoJSON_NoPolygon tests documents without polygons
func TestParseGeoJSON_NoPolygon(t *testing.T) {
	docs := map[string]string{
		"point geometry":   `{"type":"Point","coordinates":[1,2]}`,
		"empty collection": `{"type":"FeatureCollection","features":[]}`,
		"line feature":     `{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGeoJSON([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidGeometry)
		})
	}
}

// TestParseGeoJSON_Malformed tests broken input
func TestParseGeoJSON_Malformed(t *testing.T) {
	_, err := ParseGeoJSON([]byte(`{"type": "Polygon", "coordinates": `))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidGeometry)
}

// TestReadGeoJSONFile tests loading from disk
func TestReadGeoJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aoi.geojson")
	doc := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	ring, err := ReadGeoJSONFile(path)
	require.NoError(t, err)
	assert.Len(t, ring, 5)

	_, err = ReadGeoJSONFile(filepath.Join(t.TempDir(), "missing.geojson"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "read")
}

// TestToGeoJSON tests round-tripping a ring through encoding
func TestToGeoJSON(t *testing.T) {
	ring := square()

	data, err := ToGeoJSON(ring)
	require.NoError(t, err)

	back, err := ParseGeoJSON(data)
	require.NoError(t, err)
	assert.Equal(t, ring, back)
}
