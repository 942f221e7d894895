package region

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/foesi/such-route/internal/cache"
	"github.com/foesi/such-route/internal/overpass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCachesPolygon(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements":[{"type":"relation","members":[
			{"type":"way","role":"outer","geometry":[
				{"lat":0,"lon":0},{"lat":0,"lon":10},{"lat":10,"lon":10},{"lat":10,"lon":0},{"lat":0,"lon":0}
			]}
		]}]}`))
	}))
	defer srv.Close()

	c := cache.New(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, c.Load())

	op := overpass.New(srv.URL, 5*time.Second)
	r := New(c, op)

	region, err := r.Resolve(context.Background(), "DE-BY")
	require.NoError(t, err)
	assert.Equal(t, "DE-BY", region.Code)
	assert.Len(t, region.Bound, 1)

	_, err = r.Resolve(context.Background(), "DE-BY")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second resolve should hit the cache, not Overpass")
}
