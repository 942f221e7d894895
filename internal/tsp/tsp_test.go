package tsp

import (
	"testing"

	"github.com/foesi/such-route/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveVisitsEveryCoordinateOnce(t *testing.T) {
	t.Parallel()

	start := geo.Coordinate{Lon: 0, Lat: 0}
	end := geo.Coordinate{Lon: 10, Lat: 0}
	a := geo.Coordinate{Lon: 1, Lat: 0}
	b := geo.Coordinate{Lon: 9, Lat: 0}
	c := geo.Coordinate{Lon: 5, Lat: 0}

	costs := func(x, y geo.Coordinate) geo.Cost {
		return geo.Reachable(int((y.Lon - x.Lon) * (y.Lon - x.Lon)))
	}

	stops := Solve([]geo.Coordinate{start, end, a, b, c}, start, end, costs)

	require.Len(t, stops, 5)
	assert.Equal(t, start, stops[0].Coordinate)
	assert.Equal(t, end, stops[len(stops)-1].Coordinate)

	seen := make(map[geo.Coordinate]bool)
	for _, s := range stops {
		seen[s.Coordinate] = true
	}
	assert.True(t, seen[a])
	assert.True(t, seen[b])
	assert.True(t, seen[c])
}

func TestSolveCumulativeTimeIsMonotonic(t *testing.T) {
	t.Parallel()

	start := geo.Coordinate{Lon: 0, Lat: 0}
	end := geo.Coordinate{Lon: 3, Lat: 0}
	a := geo.Coordinate{Lon: 1, Lat: 0}
	b := geo.Coordinate{Lon: 2, Lat: 0}

	costs := func(x, y geo.Coordinate) geo.Cost {
		return geo.Reachable(60)
	}

	stops := Solve([]geo.Coordinate{start, end, a, b}, start, end, costs)

	for i := 1; i < len(stops); i++ {
		assert.GreaterOrEqual(t, stops[i].CumulativeTime, stops[i-1].CumulativeTime)
	}
}
