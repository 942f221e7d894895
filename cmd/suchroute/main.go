// Command suchroute creates distance matrices and a solved tour order
// for the SUCH bicycle route, grounded on such_route.py's argparse CLI
// (-f/--filename, -b/--backend) with a plain flag.FlagSet in the style
// of the teacher's non-fx command entrypoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/foesi/such-route/config"
	"github.com/foesi/such-route/internal/checkpoint"
	"github.com/foesi/such-route/internal/engine"
	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
	logs "github.com/foesi/such-route/internal/infra/log"
	"github.com/foesi/such-route/internal/matrix"
	"github.com/foesi/such-route/internal/overpass"
	"github.com/foesi/such-route/internal/region"
	"github.com/foesi/such-route/internal/routingservice"
	"github.com/foesi/such-route/internal/scramble"
	"github.com/foesi/such-route/internal/tsp"

	"github.com/foesi/such-route/internal/cache"
)

const (
	backendBrouter  = "brouter"
	backendValhalla = "valhalla"
)

// groupOrder is the intermediate checkpoint group sequence, matching
// such_route.py's explicit groups['1']..groups['7'] enumeration.
var groupOrder = []string{"1", "2", "3", "4", "5", "6", "7"}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	filename := flag.String("f", "", "the checkpoint csv file")
	backend := flag.String("b", backendValhalla, "the routing backend: brouter or valhalla")
	configPath := flag.String("c", "", "optional YAML configuration file")
	flag.Parse()

	if *filename == "" {
		return errors.New("-f/--filename is required")
	}
	if *backend != backendBrouter && *backend != backendValhalla {
		return errors.Errorf("unknown backend %q: must be %q or %q", *backend, backendBrouter, backendValhalla)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := logs.New(cfg.Log)
	if err != nil {
		return err
	}

	ctx := context.Background()

	rows, err := checkpoint.Load(*filename)
	if err != nil {
		return err
	}

	c := cache.New(cfg.CachePrefix)
	if err := c.Load(); err != nil {
		return err
	}
	defer func() {
		if err := c.Save(); err != nil {
			logger.Error("failed to save cache on exit", "err", err)
		}
	}()

	op := overpass.New(cfg.OverpassEndpoint, cfg.Valhalla.Timeout)
	regions := region.New(c, op)

	codeToRegion := make(map[string]geo.Region)
	for _, row := range rows {
		if _, ok := codeToRegion[row.Region]; ok {
			continue
		}

		reg, err := regions.Resolve(ctx, row.Region)
		if err != nil {
			return err
		}

		codeToRegion[row.Region] = reg
	}

	if err := c.Save(); err != nil {
		return err
	}

	var eng engine.Engine
	if *backend == backendBrouter {
		eng = engine.NewBrouter(cfg.Brouter.BaseURL, cfg.Brouter.Timeout)
	} else {
		eng = engine.NewValhalla(cfg.Valhalla.BaseURL, cfg.Valhalla.Timeout, cfg.UseFerries)
	}

	checkpoints := make([]scramble.Checkpoint, len(rows))
	for i, row := range rows {
		checkpoints[i] = row.Checkpoint
	}

	selection := scramble.NogoSelectsChosen
	if !cfg.NogoSelectsChosen {
		selection = scramble.NogoSelectsNonChosen
	}

	scrambler := scramble.New(checkpoints, groupOrder, selection)

	codeToExclusions := make(map[string][]geo.Coordinate)

	for _, entry := range scrambler.Entries() {
		var nogoRegions []geo.Region
		var excludeLocations []geo.Coordinate

		for _, code := range entry.Nogos {
			nogoRegions = append(nogoRegions, codeToRegion[code])

			crossings, ok := codeToExclusions[code]
			if !ok {
				var err error

				crossings, err = regions.BorderCrossings(ctx, eng.Name(), codeToRegion[code])
				if err != nil {
					return err
				}

				codeToExclusions[code] = crossings
			}

			excludeLocations = append(excludeLocations, crossings...)
		}

		service := routingservice.New(eng, c, nogoRegions, excludeLocations, cfg.DistanceCutoffKM, logger)
		builder := matrix.New(service, cfg.MatrixWorkers, cfg.ResultsDir, logger)

		sink := entry.Coordinates[len(entry.Coordinates)-1]

		if _, err := builder.Build(ctx, entry.Coordinates, sink, entry.Nogos); err != nil {
			return err
		}
	}

	if err := c.Save(); err != nil {
		return err
	}

	return writeTourOrder(ctx, rows, eng, c, cfg, logger)
}

// writeTourOrder solves the unconstrained, all-checkpoints tour and
// writes checkpoints_ordered.csv (spec.md §6), the external-solver
// surface stubbed per SPEC_FULL.md §5.
func writeTourOrder(ctx context.Context, rows []checkpoint.Row, eng engine.Engine, c *cache.Cache, cfg *config.Config, logger *slog.Logger) error {
	if len(rows) == 0 {
		return nil
	}

	codeByCoordinate := make(map[geo.Coordinate]string, len(rows))

	coords := make([]geo.Coordinate, 0, len(rows))
	var start, dest geo.Coordinate

	for _, row := range rows {
		codeByCoordinate[row.Position] = row.Code

		switch row.Group {
		case "8":
			start = row.Position

			continue
		case "0":
			dest = row.Position
		}

		coords = append(coords, row.Position)
	}

	coords = append([]geo.Coordinate{start}, coords...)

	service := routingservice.New(eng, c, nil, nil, cfg.DistanceCutoffKM, logger)

	costs := func(a, b geo.Coordinate) geo.Cost {
		if a == dest {
			return geo.Unreachable
		}

		result, err := service.Query(ctx, a, b)
		if err != nil {
			return geo.Unreachable
		}

		return result.Cost
	}

	stops := tsp.Solve(coords, start, dest, costs)

	ordered := make([]checkpoint.OrderedStop, len(stops))
	for i, s := range stops {
		ordered[i] = checkpoint.OrderedStop{
			Code:           codeByCoordinate[s.Coordinate],
			CumulativeTime: s.CumulativeTime,
		}
	}

	return checkpoint.WriteOrdered("checkpoints_ordered.csv", ordered)
}
