package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestCoordinateString(t *testing.T) {
	t.Parallel()

	c := Coordinate{Lon: 7.44, Lat: 46.94}
	assert.Equal(t, "(7.44, 46.94)", c.String())
}

func TestCoordinateEquality(t *testing.T) {
	t.Parallel()

	a := Coordinate{Lon: 7.44, Lat: 46.94}
	b := Coordinate{Lon: 7.44, Lat: 46.94}
	c := Coordinate{Lon: 7.45, Lat: 46.94}

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDistanceKM(t *testing.T) {
	t.Parallel()

	bern := Coordinate{Lon: 7.4474, Lat: 46.9480}
	zurich := Coordinate{Lon: 8.5417, Lat: 47.3769}

	d := DistanceKM(bern, zurich)
	assert.InDelta(t, 95, d, 10)
}

func TestCostSerialization(t *testing.T) {
	t.Parallel()

	reachable := Reachable(120)
	assert.True(t, reachable.IsReachable())
	assert.Equal(t, 120, reachable.SerializedSeconds())

	assert.False(t, Unreachable.IsReachable())
	assert.Equal(t, UnreachableSeconds, Unreachable.SerializedSeconds())

	assert.Equal(t, Unreachable, CostFromSeconds(UnreachableSeconds))
	assert.Equal(t, Reachable(42), CostFromSeconds(42))
}

func TestCostLess(t *testing.T) {
	t.Parallel()

	assert.True(t, Reachable(10).Less(Reachable(20)))
	assert.False(t, Reachable(20).Less(Reachable(10)))
	assert.True(t, Reachable(10).Less(Unreachable))
	assert.False(t, Unreachable.Less(Reachable(10)))
}

func square(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{minLon, minLat},
			{maxLon, minLat},
			{maxLon, maxLat},
			{minLon, maxLat},
			{minLon, minLat},
		},
	}
}

func TestPointInPolygon(t *testing.T) {
	t.Parallel()

	poly := square(0, 0, 10, 10)

	assert.True(t, PointInPolygon(orb.Point{5, 5}, poly))
	assert.False(t, PointInPolygon(orb.Point{15, 5}, poly))
}

func TestLineIntersectsPolygon(t *testing.T) {
	t.Parallel()

	poly := square(0, 0, 10, 10)

	crossing := orb.LineString{{-5, 5}, {15, 5}}
	assert.True(t, LineIntersectsPolygon(crossing, poly))

	outside := orb.LineString{{-5, -5}, {-1, -1}}
	assert.False(t, LineIntersectsPolygon(outside, poly))

	inside := orb.LineString{{2, 2}, {8, 8}}
	assert.True(t, LineIntersectsPolygon(inside, poly))
}

func TestBoundaryCrossings(t *testing.T) {
	t.Parallel()

	poly := square(0, 0, 10, 10)
	line := orb.LineString{{-5, 5}, {15, 5}}

	crossings := BoundaryCrossings(line, poly)
	assert.Len(t, crossings, 2)
	assert.InDelta(t, 0, crossings[0].Lon, 1e-9)
	assert.InDelta(t, 10, crossings[1].Lon, 1e-9)
}

func TestRegionIntersectsLine(t *testing.T) {
	t.Parallel()

	mp := orb.MultiPolygon{square(0, 0, 10, 10)}
	region := NewRegion("DE-BY", mp)

	assert.True(t, region.IntersectsLine(Shape{{Lon: -5, Lat: 5}, {Lon: 15, Lat: 5}}))
	assert.False(t, region.IntersectsLine(Shape{{Lon: -5, Lat: -5}, {Lon: -1, Lat: -1}}))
}
