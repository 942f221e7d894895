// Package codec implements the tuple-keyed JSON encoding shared by the
// cache's small tier and the matrix builder's output files (spec.md
// §4.8, C8). Coordinate-pair keys are written as the literal string
// "(lon, lat)" instead of a JSON array, for compatibility with the
// external TSP consumer's expected matrix format.
package codec

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
)

var tupleKeyPattern = regexp.MustCompile(`\(([\d.eE+-]+), ?([\d.eE+-]+)\)`)

// EncodeCoordinateKey renders a Coordinate the way the matrix and cache
// expect a map key: "(lon, lat)".
func EncodeCoordinateKey(c geo.Coordinate) string {
	return c.String()
}

// DecodeCoordinateKey parses a "(lon, lat)" string back into a
// Coordinate. It fails fatally (returns an error) on anything that is
// not a 2-tuple, matching the original implementation's strict parser.
func DecodeCoordinateKey(key string) (geo.Coordinate, error) {
	m := tupleKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return geo.Coordinate{}, errors.Errorf("not a 2-tuple key: %q", key)
	}

	lon, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return geo.Coordinate{}, errors.Wrapf(err, "parse longitude in key %q", key)
	}

	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return geo.Coordinate{}, errors.Wrapf(err, "parse latitude in key %q", key)
	}

	return geo.Coordinate{Lon: lon, Lat: lat}, nil
}

// Matrix is the on-disk shape of results/distance_matrix*.json: an
// outer map keyed by source coordinate, an inner map keyed by
// destination coordinate, whose value is the serialized cost in
// seconds (geo.Cost.SerializedSeconds).
type Matrix map[string]map[string]int

// NewMatrix builds a Matrix from a cost lookup over the given ordered
// coordinates, serializing geo.Unreachable to geo.UnreachableSeconds.
func NewMatrix(coords []geo.Coordinate, cost func(src, dst geo.Coordinate) geo.Cost) Matrix {
	m := make(Matrix, len(coords))

	for _, src := range coords {
		row := make(map[string]int, len(coords)-1)

		for _, dst := range coords {
			if src == dst {
				continue
			}

			row[EncodeCoordinateKey(dst)] = cost(src, dst).SerializedSeconds()
		}

		m[EncodeCoordinateKey(src)] = row
	}

	return m
}

// Marshal renders a Matrix as indented JSON, matching the original
// implementation's json.dump(..., indent=2) output.
func Marshal(m Matrix) ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal matrix")
	}

	return b, nil
}

// Unmarshal parses a previously-written Matrix file, validating every
// key decodes as a 2-tuple coordinate.
func Unmarshal(data []byte) (Matrix, error) {
	var m Matrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal matrix")
	}

	for src, row := range m {
		if _, err := DecodeCoordinateKey(src); err != nil {
			return nil, err
		}

		for dst := range row {
			if _, err := DecodeCoordinateKey(dst); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}
