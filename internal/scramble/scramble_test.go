package scramble

import (
	"testing"

	"github.com/foesi/such-route/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCheckpoints() []Checkpoint {
	return []Checkpoint{
		{Position: geo.Coordinate{Lon: 0, Lat: 0}, Group: "8"},
		{Position: geo.Coordinate{Lon: 99, Lat: 99}, Group: "0"},
		{Position: geo.Coordinate{Lon: 1, Lat: 1}, Group: "1", Region: "CH-BE"},
		{Position: geo.Coordinate{Lon: 2, Lat: 2}, Group: "1", Region: "CH-VD"},
		{Position: geo.Coordinate{Lon: 3, Lat: 3}, Group: "2", Region: "CH-ZH"},
		{Position: geo.Coordinate{Lon: 4, Lat: 4}, Group: "2", Region: "CH-LU"},
	}
}

func TestEntriesEmitsUnconstrainedFirst(t *testing.T) {
	t.Parallel()

	s := New(testCheckpoints(), []string{"1", "2"}, NogoSelectsChosen)
	entries := s.Entries()

	require.NotEmpty(t, entries)
	first := entries[0]
	assert.Empty(t, first.Nogos)
	assert.Len(t, first.Coordinates, 6)
	assert.Equal(t, geo.Coordinate{Lon: 0, Lat: 0}, first.Coordinates[0])
	assert.Equal(t, geo.Coordinate{Lon: 99, Lat: 99}, first.Coordinates[len(first.Coordinates)-1])
}

func TestEntriesEnumeratesAllCombinations(t *testing.T) {
	t.Parallel()

	s := New(testCheckpoints(), []string{"1", "2"}, NogoSelectsChosen)
	entries := s.Entries()

	// 1 unconstrained + 2*2 combinations of group 1 x group 2
	assert.Len(t, entries, 1+4)
}

func TestNogoSelectsChosenExcludesSelectedFromCoords(t *testing.T) {
	t.Parallel()

	s := New(testCheckpoints(), []string{"1"}, NogoSelectsChosen)
	entries := s.Entries()

	combo := entries[1]
	assert.Equal(t, []string{"CH-BE"}, combo.Nogos)
	assert.NotContains(t, combo.Coordinates, geo.Coordinate{Lon: 1, Lat: 1})
	assert.Contains(t, combo.Coordinates, geo.Coordinate{Lon: 2, Lat: 2})
}

func TestNogoSelectsNonChosenIncludesSelectedInCoords(t *testing.T) {
	t.Parallel()

	s := New(testCheckpoints(), []string{"1"}, NogoSelectsNonChosen)
	entries := s.Entries()

	combo := entries[1]
	assert.Equal(t, []string{"CH-VD"}, combo.Nogos)
	assert.Contains(t, combo.Coordinates, geo.Coordinate{Lon: 1, Lat: 1})
	assert.NotContains(t, combo.Coordinates, geo.Coordinate{Lon: 2, Lat: 2})
}
