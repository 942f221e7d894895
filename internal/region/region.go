// Package region resolves and caches administrative-boundary regions
// (C2), grounded on the original implementation's data.Canton class:
// fetch-once-per-code polygon acquisition, with border crossings
// cached per routing backend the way routing.valhalla.calc_avoided_locations
// memoizes them under a "<backend>:intersection_points:<code>" key.
package region

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/foesi/such-route/internal/cache"
	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
	"github.com/foesi/such-route/internal/overpass"
)

// Resolver loads and caches Region polygons by code.
type Resolver struct {
	cache    *cache.Cache
	overpass *overpass.Client
}

// New constructs a Resolver.
func New(c *cache.Cache, op *overpass.Client) *Resolver {
	return &Resolver{cache: c, overpass: op}
}

// Resolve returns the Region for code, fetching it from Overpass on a
// cache miss and memoizing the polygon under the bare code (matching
// the original implementation's cache.get_generic(code)/set_generic).
func (r *Resolver) Resolve(ctx context.Context, code string) (geo.Region, error) {
	var mp orb.MultiPolygon

	ok, err := r.cache.GetGeneric(code, &mp)
	if err != nil {
		return geo.Region{}, err
	}

	if !ok {
		mp, err = r.overpass.AdminBoundaryPolygon(ctx, code)
		if err != nil {
			return geo.Region{}, errors.Wrapf(err, "resolve region %s", code)
		}

		if err := r.cache.SetGeneric(code, mp); err != nil {
			return geo.Region{}, err
		}
	}

	return geo.NewRegion(code, mp), nil
}

// BorderCrossings returns the points where the region's boundary
// crosses a driveable road inside its bounding box, cached per backend
// under "<backend>:intersection_points:<code>" (spec.md §4.2).
func (r *Resolver) BorderCrossings(ctx context.Context, backend string, reg geo.Region) ([]geo.Coordinate, error) {
	cacheKey := backend + ":intersection_points:" + reg.Code

	var cached []geo.Coordinate

	ok, err := r.cache.GetGeneric(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if ok {
		return cached, nil
	}

	roads, err := r.overpass.DriveableRoadsInBound(ctx, reg.BBox)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch roads for region %s", reg.Code)
	}

	var crossings []geo.Coordinate
	for _, road := range roads {
		crossings = append(crossings, reg.BorderCrossings(road)...)
	}

	if err := r.cache.SetGeneric(cacheKey, crossings); err != nil {
		return nil, err
	}

	return crossings, nil
}
