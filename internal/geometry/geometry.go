// Package geometry validates and normalizes request polygons.
//
// The core services delegate all ring math here; the package wraps
// github.com/paulmach/orb so the rest of the codebase only handles
// domain.Ring values.
package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// simplifyBaseTolerance is the starting Douglas-Peucker tolerance in
// degrees, roughly one metre at the equator. Doubled until the ring
// fits the vertex budget.
const simplifyBaseTolerance = 1e-5

// Normalize validates a request ring and returns it as a canonical AOI:
// closed, duplicate-free, counter-clockwise, simple, within WGS84
// bounds. Violations return errors wrapping domain.ErrInvalidGeometry.
func Normalize(ring domain.Ring) (domain.AOI, error) {
	if len(ring) == 0 {
		return domain.AOI{}, fmt.Errorf("%w: empty ring", domain.ErrInvalidGeometry)
	}
	if !ring.Closed() {
		return domain.AOI{}, fmt.Errorf("%w: ring is not closed (first point must repeat as last)", domain.ErrInvalidGeometry)
	}
	for i, p := range ring {
		if !p.InRange() {
			return domain.AOI{}, fmt.Errorf("%w: point %d (%v, %v) outside WGS84 bounds", domain.ErrInvalidGeometry, i, p.Lon, p.Lat)
		}
	}

	clean := dropRepeats(ring)
	if clean.Vertices() < 3 {
		return domain.AOI{}, fmt.Errorf("%w: ring needs at least 3 distinct vertices, got %d", domain.ErrInvalidGeometry, clean.Vertices())
	}

	o := ToOrb(clean)
	if planar.Area(o) == 0 {
		return domain.AOI{}, fmt.Errorf("%w: ring bounds no area", domain.ErrInvalidGeometry)
	}
	if crossing := selfIntersects(o); crossing {
		return domain.AOI{}, fmt.Errorf("%w: ring self-intersects", domain.ErrInvalidGeometry)
	}

	// Providers require counter-clockwise exteriors.
	if o.Orientation() != orb.CCW {
		o.Reverse()
	}
	return domain.AOI{Ring: FromOrb(o)}, nil
}

// Simplify reduces a ring to at most maxVertices distinct vertices
// using Douglas-Peucker with escalating tolerance. Returns the input
// unchanged when it already fits. The second return reports whether
// simplification happened.
func Simplify(ring domain.Ring, maxVertices int) (domain.Ring, bool) {
	if ring.Vertices() <= maxVertices {
		return ring, false
	}

	o := ToOrb(ring)
	tolerance := simplifyBaseTolerance
	for range 48 {
		s := simplify.DouglasPeucker(tolerance).Ring(o.Clone())
		if ringFits(s, maxVertices) {
			return FromOrb(s), true
		}
		tolerance *= 2
	}
	// Tolerance grew past any geographic extent; keep the last resort
	// of the ring's bounding box.
	bound := o.Bound()
	return FromOrb(bound.ToRing()), true
}

func ringFits(r orb.Ring, maxVertices int) bool {
	if len(r) < 4 || !r.Closed() {
		return false
	}
	return len(r)-1 <= maxVertices
}

// ToOrb converts a domain ring to an orb ring.
func ToOrb(ring domain.Ring) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		out[i] = orb.Point{p.Lon, p.Lat}
	}
	return out
}

// FromOrb converts an orb ring to a domain ring.
func FromOrb(ring orb.Ring) domain.Ring {
	out := make(domain.Ring, len(ring))
	for i, p := range ring {
		out[i] = domain.Point{Lon: p[0], Lat: p[1]}
	}
	return out
}

// dropRepeats removes consecutive duplicate points, keeping closure.
func dropRepeats(ring domain.Ring) domain.Ring {
	out := make(domain.Ring, 0, len(ring))
	for i, p := range ring {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	if !out.Closed() {
		out = append(out, out[0])
	}
	return out
}

// selfIntersects reports whether any two non-adjacent edges of the ring
// properly cross. orb has no ring-validity predicate, so this is a
// direct O(n²) segment sweep; request rings are small.
func selfIntersects(r orb.Ring) bool {
	n := len(r) - 1 // edges
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// Skip adjacent edges, including the first/last pair
			// that share the closing vertex.
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsCross(r[i], r[i+1], r[j], r[j+1]) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports a proper or improper crossing between segments
// ab and cd.
func segmentsCross(a, b, c, d orb.Point) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	// Collinear overlaps count as intersections.
	switch {
	case d1 == 0 && onSegment(c, d, a):
		return true
	case d2 == 0 && onSegment(c, d, b):
		return true
	case d3 == 0 && onSegment(a, b, c):
		return true
	case d4 == 0 && onSegment(a, b, d):
		return true
	}
	return false
}

func cross(a, b, p orb.Point) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}
