package cache

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/foesi/such-route/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRouteKeyDeterministicNogoOrder(t *testing.T) {
	t.Parallel()

	src := geo.Coordinate{Lon: 7.44, Lat: 46.94}
	dst := geo.Coordinate{Lon: 8.55, Lat: 47.37}

	a := BuildRouteKey("valhalla", src, dst, []string{"DE-BY", "CH-BE"})
	b := BuildRouteKey("valhalla", src, dst, []string{"CH-BE", "DE-BY"})

	assert.Equal(t, a, b)
	assert.Equal(t, "valhalla:(7.44, 46.94):(8.55, 47.37):CH-BE,DE-BY", a)
}

func TestBuildRouteKeyNoNogos(t *testing.T) {
	t.Parallel()

	src := geo.Coordinate{Lon: 7.44, Lat: 46.94}
	dst := geo.Coordinate{Lon: 8.55, Lat: 47.37}

	assert.Equal(t, "valhalla:(7.44, 46.94):(8.55, 47.37)", BuildRouteKey("valhalla", src, dst, nil))
}

func TestCacheSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c := New(path)
	require.NoError(t, c.Load())
	require.NoError(t, c.SetGeneric("key-a", 120))
	require.NoError(t, c.Save())

	reloaded := New(path)
	require.NoError(t, reloaded.Load())

	var v int
	ok, err := reloaded.GetGeneric("key-a", &v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 120, v)

	ok, err = reloaded.GetGeneric("missing", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheIterateByPrefix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := New(filepath.Join(dir, "cache.json"))
	require.NoError(t, c.Load())

	require.NoError(t, c.SetGeneric("valhalla:(1, 1):(2, 2):DE-BY", 100))
	require.NoError(t, c.SetGeneric("valhalla:(1, 1):(2, 2):CH-BE", 150))
	require.NoError(t, c.SetGeneric("valhalla:(1, 1):(3, 3)", 999))

	var seen []string
	err := c.IterateByPrefix("valhalla:(1, 1):(2, 2)", func(key string, _ json.RawMessage) error {
		seen = append(seen, key)

		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestCacheLargeTierConcurrentDistinctKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := New(filepath.Join(dir, "cache.json"))
	require.NoError(t, c.Load())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			key := "shape-" + string(rune('a'+i%26)) + string(rune('0'+i/26))
			err := c.SetLarge(key, []float64{float64(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var v []float64
	ok, err := c.GetLarge("shape-a0", &v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float64{0}, v)
}
