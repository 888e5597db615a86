package domain

// Point is a single lon/lat coordinate in EPSG:4326 decimal degrees.
type Point struct {
	// Lon is the longitude in [-180, 180].
	Lon float64

	// Lat is the latitude in [-90, 90].
	Lat float64
}

// InRange reports whether the point lies within valid WGS84 bounds.
func (p Point) InRange() bool {
	return p.Lon >= -180 && p.Lon <= 180 && p.Lat >= -90 && p.Lat <= 90
}

// Ring is an ordered sequence of points forming a linear ring.
// A closed ring repeats its first point as its last; rings with fewer
// than four points (including the closing point) cannot bound an area.
type Ring []Point

// Closed reports whether the ring's last point repeats its first.
// Empty rings are not closed.
func (r Ring) Closed() bool {
	if len(r) < 2 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// Vertices returns the number of distinct vertices, excluding the
// closing point when present.
func (r Ring) Vertices() int {
	if r.Closed() {
		return len(r) - 1
	}
	return len(r)
}

// Clone returns an independent copy of the ring.
func (r Ring) Clone() Ring {
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// AOI is a validated area of interest: a simple, closed exterior ring
// with counter-clockwise winding. Construct via the geometry normalizer;
// the zero value is not a valid AOI.
type AOI struct {
	// Ring is the exterior ring. Closed, counter-clockwise, simple.
	Ring Ring
}

// Vertices returns the distinct vertex count of the exterior ring.
func (a AOI) Vertices() int {
	return a.Ring.Vertices()
}
