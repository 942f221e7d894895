package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
)

// Brouter adapts a Brouter HTTP endpoint to the Engine interface,
// grounded on the original implementation's routing.brouter module.
// Brouter's fastbike GeoJSON response never populated distance or
// shape in the original, so this adapter reports only the route
// duration; distance is synthesized as 0 and the shape is left empty,
// which is consistent with the source it is grounded on.
type Brouter struct {
	client  *http.Client
	baseURL string
}

// NewBrouter constructs a Brouter engine against baseURL (e.g.
// "http://localhost:17777").
func NewBrouter(baseURL string, timeout time.Duration) *Brouter {
	return &Brouter{client: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

// Name implements Engine.
func (b *Brouter) Name() string { return "brouter" }

type brouterResponse struct {
	Features []struct {
		Properties struct {
			TotalTime float64 `json:"total-time"`
		} `json:"properties"`
	} `json:"features"`
}

// Route implements Engine. excludeLocations is unused: Brouter's
// fastbike profile has no equivalent to Valhalla's exclude_locations
// in the original implementation.
func (b *Brouter) Route(ctx context.Context, src, dst geo.Coordinate, _ []geo.Coordinate) (Route, error) {
	url := fmt.Sprintf("%s/brouter?lonlats=%v,%v|%v,%v&profile=fastbike&format=geojson",
		b.baseURL, src.Lon, src.Lat, dst.Lon, dst.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Route{}, errors.Wrap(err, "build brouter request")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return Route{}, errors.Wrap(err, "call brouter")
	}
	defer resp.Body.Close()

	var decoded brouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Route{}, errors.Wrap(err, "decode brouter response")
	}

	if len(decoded.Features) == 0 {
		return Route{}, &RoutingError{Backend: b.Name(), Reason: "no route found"}
	}

	return Route{
		Seconds: int(decoded.Features[0].Properties.TotalTime),
	}, nil
}
