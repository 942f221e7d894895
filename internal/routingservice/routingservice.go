// Package routingservice implements the cache-or-compute routing core
// (C4), grounded line-for-line on the original implementation's
// routing_service.RoutingService.cache_or_connection.
package routingservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/foesi/such-route/internal/cache"
	"github.com/foesi/such-route/internal/engine"
	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
)

func unmarshalEntry(raw json.RawMessage, out *cacheEntry) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decode cached route entry")
	}

	return nil
}

// DefaultDistanceCutoffKM mirrors the original implementation's
// DISTANCE_CUTOFF constant.
const DefaultDistanceCutoffKM = 120

// Result is the outcome of a single query, carrying the cache key so
// callers can retrieve the associated shape on demand.
type Result struct {
	RouteKey string
	Cost     geo.Cost
	Meters   float64
}

// cacheEntry is the small-tier value stored per route key.
type cacheEntry struct {
	Seconds int     `json:"seconds"`
	Meters  float64 `json:"meters"`
}

// Service ties a routing Engine to the shared cache, the way the
// original implementation's Valhalla/Brouter subclasses shared one
// Cache instance across every query in a run.
type Service struct {
	eng              engine.Engine
	cache            *cache.Cache
	nogos            []geo.Region
	excludeLocations []geo.Coordinate
	distanceCutoffKM float64
	logger           *slog.Logger
}

// New constructs a Service. nogos is the set of regions to avoid for
// every query this Service issues; a Scrambler produces one Service
// (or one nogo set) per scramble entry. excludeLocations are the
// points actually handed to the engine's exclude-locations parameter:
// per original_source/routing/valhalla.py's calc_avoided_locations,
// these are each nogo region's driveable-road border crossings
// (region.Resolver.BorderCrossings), computed once per region and
// passed in by the caller — not recomputed per query against the
// query's own src/dst line.
func New(eng engine.Engine, c *cache.Cache, nogos []geo.Region, excludeLocations []geo.Coordinate, distanceCutoffKM float64, logger *slog.Logger) *Service {
	if distanceCutoffKM <= 0 {
		distanceCutoffKM = DefaultDistanceCutoffKM
	}

	return &Service{eng: eng, cache: c, nogos: nogos, excludeLocations: excludeLocations, distanceCutoffKM: distanceCutoffKM, logger: logger}
}

func (s *Service) nogoCodes() []string {
	codes := make([]string, len(s.nogos))
	for i, r := range s.nogos {
		codes[i] = r.Code
	}

	return codes
}

// Query returns the cost and route key for src->dst, implementing
// spec.md §4.4's four-step algorithm:
//  1. geodesic cutoff: Unreachable above the cutoff, returned without
//     calling the engine and without writing to the cache.
//  2. exact cache hit on (engine, src, dst, nogos).
//  3. constraint-compatible relaxed-route reuse: scan cached entries
//     for the same (engine, src, dst) ignoring nogos, cheapest first,
//     reuse the first whose shape does not cross any nogo region.
//  4. live computation via the engine, excluding each nogo region's
//     border crossings, memoizing Unreachable when the engine returns
//     an *engine.RoutingError. Any other engine error (including a
//     transport failure or timeout) is returned and nothing is cached.
func (s *Service) Query(ctx context.Context, src, dst geo.Coordinate) (Result, error) {
	routeKey := cache.BuildRouteKey(s.eng.Name(), src, dst, s.nogoCodes())

	if geo.DistanceKM(src, dst) > s.distanceCutoffKM {
		s.logger.Debug("points too far apart", "src", src, "dst", dst, "cutoff_km", s.distanceCutoffKM)

		return Result{RouteKey: routeKey, Cost: geo.Unreachable}, nil
	}

	var hit cacheEntry
	ok, err := s.cache.GetGeneric(routeKey, &hit)
	if err != nil {
		return Result{}, err
	}
	if ok {
		s.logger.Debug("distance found in cache", "src", src, "dst", dst, "nogos", s.nogoCodes())

		return Result{RouteKey: routeKey, Cost: geo.CostFromSeconds(hit.Seconds), Meters: hit.Meters}, nil
	}

	if len(s.nogos) > 0 {
		if reused, ok, err := s.reuseRelaxedRoute(src, dst, routeKey); err != nil {
			return Result{}, err
		} else if ok {
			return reused, nil
		}
	}

	return s.computeLive(ctx, src, dst, routeKey)
}

// reuseRelaxedRoute scans cached entries for (engine, src, dst) built
// with any (or no) nogo set, cheapest first, and reuses the first one
// with a non-empty shape that does not cross a region this Service
// must avoid.
func (s *Service) reuseRelaxedRoute(src, dst geo.Coordinate, routeKey string) (Result, bool, error) {
	prefix := cache.RouteKeyPrefix(s.eng.Name(), src, dst)

	type candidate struct {
		key     string
		entry   cacheEntry
		reachable bool
	}

	var candidates []candidate

	err := s.cache.IterateByPrefix(prefix, func(key string, raw json.RawMessage) error {
		var entry cacheEntry
		if err := unmarshalEntry(raw, &entry); err != nil {
			return err
		}

		if entry.Seconds == geo.UnreachableSeconds {
			return nil
		}

		candidates = append(candidates, candidate{key: key, entry: entry, reachable: true})

		return nil
	})
	if err != nil {
		return Result{}, false, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].entry.Seconds < candidates[j].entry.Seconds
	})

	for _, c := range candidates {
		var shape geo.Shape

		ok, err := s.cache.GetLarge(c.key+":route", &shape)
		if err != nil {
			return Result{}, false, err
		}
		if !ok || len(shape) == 0 {
			continue
		}

		if anyRegionIntersects(s.nogos, shape) {
			continue
		}

		if err := s.cache.SetGeneric(routeKey, c.entry); err != nil {
			return Result{}, false, err
		}
		if err := s.cache.SetLarge(routeKey+":route", shape); err != nil {
			return Result{}, false, err
		}

		s.logger.Debug("reusing shortest constraint-compatible route", "src", src, "dst", dst)

		return Result{RouteKey: routeKey, Cost: geo.Reachable(c.entry.Seconds), Meters: c.entry.Meters}, true, nil
	}

	return Result{}, false, nil
}

func (s *Service) computeLive(ctx context.Context, src, dst geo.Coordinate, routeKey string) (Result, error) {
	route, err := s.eng.Route(ctx, src, dst, s.excludeLocations)

	var entry cacheEntry
	cost := geo.Unreachable

	if err != nil {
		if _, isRoutingErr := err.(*engine.RoutingError); !isRoutingErr {
			return Result{}, errors.Wrap(err, "compute route")
		}

		entry = cacheEntry{Seconds: geo.UnreachableSeconds}
	} else {
		entry = cacheEntry{Seconds: route.Seconds, Meters: route.Meters}
		cost = geo.Reachable(route.Seconds)

		if err := s.cache.SetLarge(routeKey+":route", route.Shape); err != nil {
			return Result{}, err
		}
	}

	if err := s.cache.SetGeneric(routeKey, entry); err != nil {
		return Result{}, err
	}

	if len(s.nogos) > 0 {
		s.logger.Info("calculated route while avoiding regions", "src", src, "dst", dst, "nogos", s.nogoCodes())
	} else {
		s.logger.Info("calculated route", "src", src, "dst", dst)
	}

	return Result{RouteKey: routeKey, Cost: cost, Meters: entry.Meters}, nil
}

func anyRegionIntersects(regions []geo.Region, shape geo.Shape) bool {
	for _, r := range regions {
		if r.IntersectsLine(shape) {
			return true
		}
	}

	return false
}
