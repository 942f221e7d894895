package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValhallaPolylineDecodePrecision(t *testing.T) {
	t.Parallel()

	// Classic Google polyline example, re-encoded at Valhalla's 1e-6
	// precision; decodes in (lon, lat) order (spec scenario S4).
	line := valhallaCodec.Decode("_izlhA~rlgdF_{geC~ywl@_kwzCn`{nI")

	require := []struct{ lon, lat float64 }{
		{-120.2, 38.5},
		{-120.95, 40.7},
		{-126.453, 43.252},
	}

	assert.Len(t, line, len(require))
	for i, want := range require {
		assert.InDelta(t, want.lon, line[i][0], 1e-3)
		assert.InDelta(t, want.lat, line[i][1], 1e-3)
	}
}
