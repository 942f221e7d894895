package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foesi/such-route/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRailwayStationsNear(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements":[
			{"type":"node","lat":46.95,"lon":7.45},
			{"type":"node","lat":46.80,"lon":7.20}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)

	stations, err := c.RailwayStationsNear(context.Background(), geo.Coordinate{Lon: 7.44, Lat: 46.94}, 20)
	require.NoError(t, err)
	assert.Len(t, stations, 2)
	assert.Equal(t, geo.Coordinate{Lon: 7.45, Lat: 46.95}, stations[0])
}

func TestAdminBoundaryPolygonNoElements(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)

	_, err := c.AdminBoundaryPolygon(context.Background(), "CH-BE")
	assert.Error(t, err)
}
