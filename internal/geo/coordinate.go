// Package geo holds the coordinate, cost, and region-intersection
// primitives shared by the cache, routing engine, routing service, and
// scramble enumerator.
package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Coordinate is a WGS-84 (lon, lat) pair. Equality is exact-bit, per
// spec.md §3, so Coordinate is a plain comparable struct.
type Coordinate struct {
	Lon float64
	Lat float64
}

// Point converts the coordinate to orb's (lon, lat) convention.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// FromPoint builds a Coordinate from an orb.Point.
func FromPoint(p orb.Point) Coordinate {
	return Coordinate{Lon: p[0], Lat: p[1]}
}

// String renders the coordinate the way the cache key and the JSON
// codec expect it: "(lon, lat)", matching the original implementation's
// Python tuple repr that the wire format was built around.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%v, %v)", c.Lon, c.Lat)
}

// DistanceKM returns the geodesic distance between two coordinates in
// kilometers, used by the C4 distance cutoff (spec.md §4.4 step 1).
func DistanceKM(a, b Coordinate) float64 {
	return geo.Distance(a.Point(), b.Point()) / 1000.0
}

// Shape is an ordered polyline from source to destination.
type Shape []Coordinate

// LineString converts a Shape to orb's LineString representation for
// geometric predicates.
func (s Shape) LineString() orb.LineString {
	ls := make(orb.LineString, len(s))
	for i, c := range s {
		ls[i] = c.Point()
	}

	return ls
}
