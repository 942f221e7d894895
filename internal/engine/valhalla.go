package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/paulmach/orb/encoding/polyline"

	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
)

// valhallaCodec decodes at Valhalla's encoded-shape precision: 1e-6
// degrees per unit, rather than the library default of 1e-5 used by
// Google's original polyline format.
var valhallaCodec = polyline.Codec{Dim: 2, Factor: 1e6}

// Valhalla adapts a Valhalla /route HTTP endpoint to the Engine
// interface, grounded on the original implementation's routing.valhalla
// module (bicycle costing, ferry toggle, exclude_locations).
type Valhalla struct {
	client     *http.Client
	baseURL    string
	useFerries bool
}

// NewValhalla constructs a Valhalla engine against baseURL (e.g.
// "http://localhost:8002"). useFerries disables the ferry-avoidance
// costing option when true.
func NewValhalla(baseURL string, timeout time.Duration, useFerries bool) *Valhalla {
	return &Valhalla{
		client:     &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		useFerries: useFerries,
	}
}

// Name implements Engine.
func (v *Valhalla) Name() string { return "valhalla" }

type valhallaLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type valhallaBicycleCosting struct {
	BicycleType      string  `json:"bicycle_type"`
	UseFerry         *int    `json:"use_ferry,omitempty"`
	AvoidBadSurfaces float64 `json:"avoid_bad_surfaces"`
	UseRoads         float64 `json:"use_roads"`
}

type valhallaRequest struct {
	Locations       []valhallaLocation `json:"locations"`
	Costing         string             `json:"costing"`
	CostingOptions  struct {
		Bicycle valhallaBicycleCosting `json:"bicycle"`
	} `json:"costing_options"`
	ExcludeLocations []valhallaLocation `json:"exclude_locations,omitempty"`
}

type valhallaResponse struct {
	Error string `json:"error"`
	Trip  struct {
		Legs []struct {
			Shape string `json:"shape"`
		} `json:"legs"`
		Summary struct {
			Time   float64 `json:"time"`
			Length float64 `json:"length"`
		} `json:"summary"`
	} `json:"trip"`
}

// Route implements Engine. It hardcodes the original implementation's
// bicycle costing tuning (avoid_bad_surfaces=0.8, use_roads=0.8) and
// decodes the returned encoded shape at Valhalla's 1e-6 precision,
// flipping the decoded (lat, lon) pairs to the (lon, lat) convention
// used throughout this repository.
func (v *Valhalla) Route(ctx context.Context, src, dst geo.Coordinate, excludeLocations []geo.Coordinate) (Route, error) {
	req := valhallaRequest{
		Locations: []valhallaLocation{
			{Lat: src.Lat, Lon: src.Lon},
			{Lat: dst.Lat, Lon: dst.Lon},
		},
		Costing: "bicycle",
	}
	req.CostingOptions.Bicycle = valhallaBicycleCosting{
		BicycleType:      "road",
		AvoidBadSurfaces: 0.8,
		UseRoads:         0.8,
	}

	if !v.useFerries {
		zero := 0
		req.CostingOptions.Bicycle.UseFerry = &zero
	}

	for _, c := range excludeLocations {
		req.ExcludeLocations = append(req.ExcludeLocations, valhallaLocation{Lat: c.Lat, Lon: c.Lon})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Route{}, errors.Wrap(err, "encode valhalla request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/route", bytes.NewReader(body))
	if err != nil {
		return Route{}, errors.Wrap(err, "build valhalla request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(httpReq)
	if err != nil {
		return Route{}, errors.Wrap(err, "call valhalla")
	}
	defer resp.Body.Close()

	var decoded valhallaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Route{}, errors.Wrap(err, "decode valhalla response")
	}

	if decoded.Error != "" {
		return Route{}, &RoutingError{Backend: v.Name(), Reason: decoded.Error}
	}

	if len(decoded.Trip.Legs) != 1 {
		return Route{}, errors.Errorf("valhalla: expected exactly one leg, got %d", len(decoded.Trip.Legs))
	}

	// polyline.Codec.Decode already flips Valhalla's wire-format
	// (lat, lon) pairs into orb's (lon, lat) point convention.
	line := valhallaCodec.Decode(decoded.Trip.Legs[0].Shape)

	shape := make(geo.Shape, len(line))
	for i, p := range line {
		shape[i] = geo.FromPoint(p)
	}

	return Route{
		Seconds: int(decoded.Trip.Summary.Time),
		Meters:  decoded.Trip.Summary.Length,
		Shape:   shape,
	}, nil
}
