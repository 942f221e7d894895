package geo

import (
	"sort"

	"github.com/paulmach/orb"
)

// No library in the example pack exposes boolean line/polygon
// intersection or ray-casting point-in-polygon tests (orb ships
// geometry types and distance/area helpers, not predicates); this file
// is necessarily hand-rolled standard-library geometry, grounded on
// orb's Point/LineString/Polygon/MultiPolygon types.

// SegmentIntersect reports whether segments p1-p2 and p3-p4 cross,
// using the standard orientation test.
func SegmentIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// SegmentIntersection returns the point where segments p1-p2 and
// p3-p4 cross, and whether they do.
func SegmentIntersection(p1, p2, p3, p4 orb.Point) (orb.Point, bool) {
	if !SegmentIntersect(p1, p2, p3, p4) {
		return orb.Point{}, false
	}

	x1, y1 := p1[0], p1[1]
	x2, y2 := p2[0], p2[1]
	x3, y3 := p3[0], p3[1]
	x4, y4 := p4[0], p4[1]

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if denom == 0 {
		return orb.Point{}, false
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom

	return orb.Point{
		x1 + t*(x2-x1),
		y1 + t*(y2-y1),
	}, true
}

func direction(a, b, c orb.Point) float64 {
	return (c[0]-a[0])*(b[1]-a[1]) - (b[0]-a[0])*(c[1]-a[1])
}

func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}

// PointInRing reports whether point lies inside ring using the
// even-odd ray-casting rule.
func PointInRing(point orb.Point, ring orb.Ring) bool {
	inside := false
	n := len(ring)

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]

		intersects := (pi[1] > point[1]) != (pj[1] > point[1]) &&
			point[0] < (pj[0]-pi[0])*(point[1]-pi[1])/(pj[1]-pi[1])+pi[0]

		if intersects {
			inside = !inside
		}
	}

	return inside
}

// PointInPolygon reports whether point lies inside polygon, honoring
// interior rings (holes) after the first.
func PointInPolygon(point orb.Point, polygon orb.Polygon) bool {
	if len(polygon) == 0 || !PointInRing(point, polygon[0]) {
		return false
	}

	for _, hole := range polygon[1:] {
		if PointInRing(point, hole) {
			return false
		}
	}

	return true
}

// LineIntersectsPolygon reports whether line crosses polygon's
// boundary, or lies entirely within it.
func LineIntersectsPolygon(line orb.LineString, polygon orb.Polygon) bool {
	if len(line) > 0 && PointInPolygon(line[0], polygon) {
		return true
	}

	for _, ring := range polygon {
		if lineIntersectsRing(line, ring) {
			return true
		}
	}

	return false
}

// LineIntersectsMultiPolygon reports whether line intersects any
// polygon of a MultiPolygon region.
func LineIntersectsMultiPolygon(line orb.LineString, mp orb.MultiPolygon) bool {
	for _, polygon := range mp {
		if LineIntersectsPolygon(line, polygon) {
			return true
		}
	}

	return false
}

func lineIntersectsRing(line orb.LineString, ring orb.Ring) bool {
	for i := 0; i+1 < len(line); i++ {
		for j := 0; j+1 < len(ring); j++ {
			if SegmentIntersect(line[i], line[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}

	return false
}

// BoundaryCrossings returns every point where line crosses polygon's
// rings, in line-traversal order (spec.md §4.2's border_crossings).
func BoundaryCrossings(line orb.LineString, polygon orb.Polygon) []Coordinate {
	var crossings []Coordinate

	for i := 0; i+1 < len(line); i++ {
		var segment []Coordinate

		for _, ring := range polygon {
			for j := 0; j+1 < len(ring); j++ {
				if p, ok := SegmentIntersection(line[i], line[i+1], ring[j], ring[j+1]); ok {
					segment = append(segment, FromPoint(p))
				}
			}
		}

		origin := line[i]
		distance := func(c Coordinate) float64 {
			dx, dy := c.Lon-origin[0], c.Lat-origin[1]

			return dx*dx + dy*dy
		}
		sort.SliceStable(segment, func(a, b int) bool {
			return distance(segment[a]) < distance(segment[b])
		})

		crossings = append(crossings, segment...)
	}

	return crossings
}

// BoundaryCrossingsMulti is BoundaryCrossings over every polygon of a
// MultiPolygon region.
func BoundaryCrossingsMulti(line orb.LineString, mp orb.MultiPolygon) []Coordinate {
	var crossings []Coordinate

	for _, polygon := range mp {
		crossings = append(crossings, BoundaryCrossings(line, polygon)...)
	}

	return crossings
}
