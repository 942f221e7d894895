package matrix

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/foesi/such-route/internal/cache"
	"github.com/foesi/such-route/internal/codec"
	"github.com/foesi/such-route/internal/engine"
	"github.com/foesi/such-route/internal/geo"
	"github.com/foesi/such-route/internal/routingservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct{}

func (fakeEngine) Name() string { return "valhalla" }

func (fakeEngine) Route(_ context.Context, src, dst geo.Coordinate, _ []geo.Coordinate) (engine.Route, error) {
	return engine.Route{Seconds: 1, Shape: geo.Shape{src, dst}}, nil
}

func TestBuildWritesMatrixFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := cache.New(filepath.Join(dir, "cache.json"))
	require.NoError(t, c.Load())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := routingservice.New(fakeEngine{}, c, nil, nil, 120, logger)

	resultsDir := filepath.Join(dir, "results")
	b := New(service, 2, resultsDir, logger)

	a := geo.Coordinate{Lon: 0, Lat: 0}
	bCoord := geo.Coordinate{Lon: 1, Lat: 1}
	sink := geo.Coordinate{Lon: 2, Lat: 2}

	m, err := b.Build(context.Background(), []geo.Coordinate{a, bCoord, sink}, sink, nil)
	require.NoError(t, err)
	assert.Len(t, m, 3)

	data, err := os.ReadFile(filepath.Join(resultsDir, "distance_matrix.json"))
	require.NoError(t, err)

	var decoded codec.Matrix
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 3)
}

func TestBuildWritesNogoSuffixedFilename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := cache.New(filepath.Join(dir, "cache.json"))
	require.NoError(t, c.Load())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := routingservice.New(fakeEngine{}, c, nil, nil, 120, logger)

	resultsDir := filepath.Join(dir, "results")
	b := New(service, 1, resultsDir, logger)

	a := geo.Coordinate{Lon: 0, Lat: 0}
	bCoord := geo.Coordinate{Lon: 1, Lat: 1}

	_, err := b.Build(context.Background(), []geo.Coordinate{a, bCoord}, bCoord, []string{"CH-VD", "CH-BE"})
	require.NoError(t, err)

	_, err = os.ReadFile(filepath.Join(resultsDir, "distance_matrix-CH-BE,CH-VD.json"))
	require.NoError(t, err)
}
