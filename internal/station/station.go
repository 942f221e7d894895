// Package station implements the nearest-railway-station resolver
// (C5), grounded on the original implementation's data.station module.
package station

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foesi/such-route/internal/cache"
	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
	"github.com/foesi/such-route/internal/overpass"
	"github.com/foesi/such-route/internal/routingservice"
)

// DefaultRadiusKM mirrors the original implementation's RADIUS
// constant.
const DefaultRadiusKM = 20

// ErrNoStationInRadius is returned when Overpass finds no railway
// station within the search radius and no override was supplied.
var ErrNoStationInRadius = errors.New("no railway station found in radius")

// Resolver finds the nearest railway station to a point, reachable by
// the configured routing service, caching both the chosen station and
// its cost.
type Resolver struct {
	cache    *cache.Cache
	overpass *overpass.Client
	routing  *routingservice.Service
	radiusKM float64
	logger   *slog.Logger
}

// New constructs a Resolver.
func New(c *cache.Cache, op *overpass.Client, routing *routingservice.Service, radiusKM float64, logger *slog.Logger) *Resolver {
	if radiusKM <= 0 {
		radiusKM = DefaultRadiusKM
	}

	return &Resolver{cache: c, overpass: op, routing: routing, radiusKM: radiusKM, logger: logger}
}

// Station is the resolved nearest-station result.
type Station struct {
	Position geo.Coordinate
	Cost     geo.Cost
}

// Resolve finds the nearest station to near, or uses override directly
// if non-nil, skipping Overpass enumeration entirely (spec.md §4.5's
// caller-supplied override).
func (r *Resolver) Resolve(ctx context.Context, near geo.Coordinate, override *geo.Coordinate) (Station, error) {
	var position geo.Coordinate

	if override != nil {
		position = *override
	} else {
		positionKey := fmt.Sprintf("station:%v,%v", near.Lon, near.Lat)

		var cached geo.Coordinate
		if ok, err := r.cache.GetGeneric(positionKey, &cached); err != nil {
			return Station{}, err
		} else if ok {
			position = cached
		} else {
			found, err := r.enumerate(ctx, near)
			if err != nil {
				return Station{}, err
			}

			position = found

			if err := r.cache.SetGeneric(positionKey, position); err != nil {
				return Station{}, err
			}
		}
	}

	costKey := fmt.Sprintf("station_cost:%v,%v", position.Lon, position.Lat)

	var cachedSeconds int
	if ok, err := r.cache.GetGeneric(costKey, &cachedSeconds); err != nil {
		return Station{}, err
	} else if ok {
		return Station{Position: position, Cost: geo.CostFromSeconds(cachedSeconds)}, nil
	}

	result, err := r.routing.Query(ctx, near, position)
	if err != nil {
		return Station{}, err
	}

	if err := r.cache.SetGeneric(costKey, result.Cost.SerializedSeconds()); err != nil {
		return Station{}, err
	}

	return Station{Position: position, Cost: result.Cost}, nil
}

// enumerate queries Overpass for railway stations within the radius
// and returns the one with the lowest routing cost from near.
func (r *Resolver) enumerate(ctx context.Context, near geo.Coordinate) (geo.Coordinate, error) {
	stations, err := r.overpass.RailwayStationsNear(ctx, near, r.radiusKM)
	if err != nil {
		return geo.Coordinate{}, err
	}

	if len(stations) == 0 {
		return geo.Coordinate{}, errors.Wrapf(ErrNoStationInRadius, "radius %gkm around %v", r.radiusKM, near)
	}

	var (
		best     geo.Coordinate
		bestCost geo.Cost
		found    bool
	)

	for _, candidate := range stations {
		result, err := r.routing.Query(ctx, near, candidate)
		if err != nil {
			return geo.Coordinate{}, err
		}

		if !found || result.Cost.Less(bestCost) {
			best = candidate
			bestCost = result.Cost
			found = true
		}
	}

	r.logger.Debug("resolved nearest station", "near", near, "station", best)

	return best, nil
}
