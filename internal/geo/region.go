package geo

import (
	"github.com/paulmach/orb"
)

// Region is an administrative-boundary polygon identified by an
// ISO-3166-2-style code (e.g. "DE-BY"), acquired via Overpass (C2).
type Region struct {
	Code    string
	Bound   orb.MultiPolygon
	BBox    orb.Bound
}

// NewRegion builds a Region from its code and boundary geometry,
// precomputing the bounding box used to scope the border-crossing
// query (spec.md §4.2).
func NewRegion(code string, bound orb.MultiPolygon) Region {
	return Region{
		Code:  code,
		Bound: bound,
		BBox:  bound.Bound(),
	}
}

// IntersectsLine reports whether the given shape crosses the region's
// boundary or lies within it, used by C4 step 3 to reject a cached
// relaxed route that would cross a nogo region.
func (r Region) IntersectsLine(shape Shape) bool {
	return LineIntersectsMultiPolygon(shape.LineString(), r.Bound)
}

// BorderCrossings returns the points where shape crosses the region's
// boundary, used by C2's border-crossing extraction to compute the
// exclude_locations that C4 step 4 passes to the live routing call.
func (r Region) BorderCrossings(shape Shape) []Coordinate {
	return BoundaryCrossingsMulti(shape.LineString(), r.Bound)
}
