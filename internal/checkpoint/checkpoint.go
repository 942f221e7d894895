// Package checkpoint loads the semicolon-delimited checkpoint CSV
// input (spec.md §6) and writes the ordered-tour CSV output, grounded
// on such_route.py's inline csv.reader usage.
package checkpoint

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
	"github.com/foesi/such-route/internal/scramble"
)

// Row is one parsed line of the input CSV: latitude;longitude;group;code;canton.
type Row struct {
	scramble.Checkpoint
	Code string
}

// Load reads path, skipping its header row, and returns one Row per
// remaining line.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open checkpoint file %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'

	var rows []Row

	for i := 0; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read checkpoint file %s", path)
		}

		if i == 0 {
			continue
		}

		if len(record) < 5 {
			return nil, errors.Errorf("checkpoint file %s: line %d has fewer than 5 columns", path, i+1)
		}

		lat, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "checkpoint file %s: line %d latitude", path, i+1)
		}

		lon, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "checkpoint file %s: line %d longitude", path, i+1)
		}

		rows = append(rows, Row{
			Checkpoint: scramble.Checkpoint{
				Position: geo.Coordinate{Lon: lon, Lat: lat},
				Group:    record[2],
				Region:   record[4],
			},
			Code: record[3],
		})
	}

	return rows, nil
}

// OrderedStop is one line of the tour-order CSV output: a checkpoint's
// code and the cumulative time to reach it.
type OrderedStop struct {
	Code           string
	CumulativeTime int
}

// WriteOrdered writes the solved tour order to path as
// "code;cumulative_seconds", matching spec.md §6's
// checkpoints_ordered.csv output.
func WriteOrdered(path string, stops []OrderedStop) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create ordered checkpoint file %s", path)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	writer.Comma = ';'

	if err := writer.Write([]string{"code", "cumulative_seconds"}); err != nil {
		return errors.Wrap(err, "write ordered checkpoint header")
	}

	for _, stop := range stops {
		record := []string{stop.Code, strconv.Itoa(stop.CumulativeTime)}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "write ordered checkpoint row for %s", stop.Code)
		}
	}

	writer.Flush()

	return errors.Wrap(writer.Error(), "flush ordered checkpoint file")
}
