// Package engine adapts external HTTP cycling routers — Valhalla and
// Brouter — behind one interface, grounded on the original
// implementation's routing.valhalla/routing.brouter modules which both
// subclass a common RoutingService.
package engine

import (
	"context"

	"github.com/foesi/such-route/internal/geo"
)

// Route is the result of a single point-to-point routing call.
type Route struct {
	Seconds  int
	Meters   float64
	Shape    geo.Shape
}

// Engine computes a single point-to-point bicycle route, the external
// collaborator C4 calls into on a cache miss (spec.md §4.3).
type Engine interface {
	// Route computes the route from src to dst, excluding the given
	// border-crossing points from consideration (spec.md §4.4 step 3).
	// It returns a *RoutingError when the backend reports no route.
	Route(ctx context.Context, src, dst geo.Coordinate, excludeLocations []geo.Coordinate) (Route, error)

	// Name identifies the backend for cache-key namespacing ("valhalla"
	// or "brouter").
	Name() string
}

// RoutingError reports that the backend could not find a route between
// the requested points, distinct from a transport-level failure.
type RoutingError struct {
	Backend string
	Reason  string
}

func (e *RoutingError) Error() string {
	return e.Backend + ": " + e.Reason
}
