// Package overpass is a minimal JSON HTTP client for the Overpass API
// queries the original implementation issues directly via the Python
// OSMPythonTools.overpass.Overpass wrapper: admin-boundary polygon
// lookup, driveable-road lookup inside a bounding box, and
// railway-station enumeration. No library in the example pack talks to
// Overpass, so this client is necessarily built on net/http and
// encoding/json rather than an ecosystem dependency.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/foesi/such-route/internal/errors"
	"github.com/foesi/such-route/internal/geo"
)

// Client queries a single Overpass endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// New constructs a Client against endpoint (e.g.
// "https://overpass.kumi.systems/api/").
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}, endpoint: endpoint}
}

type element struct {
	Type     string          `json:"type"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Geometry []overpassLatLon `json:"geometry"`
	Members  []member        `json:"members"`
}

type overpassLatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type member struct {
	Type     string          `json:"type"`
	Ref      int64           `json:"ref"`
	Role     string          `json:"role"`
	Geometry []overpassLatLon `json:"geometry"`
}

type overpassResponse struct {
	Elements []element `json:"elements"`
}

func (c *Client) query(ctx context.Context, ql string) (overpassResponse, error) {
	endpoint := strings.TrimSuffix(c.endpoint, "/") + "/interpreter"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(url.Values{"data": {ql}}.Encode()))
	if err != nil {
		return overpassResponse{}, errors.Wrap(err, "build overpass request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return overpassResponse{}, errors.Wrap(err, "call overpass")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return overpassResponse{}, errors.Errorf("overpass returned status %d", resp.StatusCode)
	}

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return overpassResponse{}, errors.Wrap(err, "decode overpass response")
	}

	return decoded, nil
}

// AdminBoundaryPolygon fetches the administrative-boundary relation
// tagged with the given ISO-3166-2-style code and returns its geometry
// as a MultiPolygon, grounded on data.get_polygon_from_canton_code.
func (c *Client) AdminBoundaryPolygon(ctx context.Context, code string) (orb.MultiPolygon, error) {
	ql := fmt.Sprintf(
		`[out:json];(relation["type"="boundary"]["boundary"="administrative"]["ISO3166-2"="%s"];);out body geom;`,
		code)

	resp, err := c.query(ctx, ql)
	if err != nil {
		return nil, err
	}

	if len(resp.Elements) == 0 {
		return nil, errors.Errorf("no admin boundary relation found for code %q", code)
	}

	rel := resp.Elements[0]

	var rings []orb.Ring
	for _, m := range rel.Members {
		if m.Role != "outer" || len(m.Geometry) == 0 {
			continue
		}

		ring := make(orb.Ring, len(m.Geometry))
		for i, ll := range m.Geometry {
			ring[i] = orb.Point{ll.Lon, ll.Lat}
		}

		rings = append(rings, ring)
	}

	if len(rings) == 0 {
		return nil, errors.Errorf("admin boundary relation for %q has no outer ways", code)
	}

	mp := make(orb.MultiPolygon, len(rings))
	for i, ring := range rings {
		mp[i] = orb.Polygon{ring}
	}

	return mp, nil
}

// DriveableRoadsInBound fetches driveable ways (the original
// implementation's highway class filter) whose geometry lies within
// bound, grounded on routing.valhalla.calc_avoided_locations.
func (c *Client) DriveableRoadsInBound(ctx context.Context, bound orb.Bound) ([]geo.Shape, error) {
	ql := fmt.Sprintf(
		`[out:json];way[highway~"^(motorway|trunk|primary|secondary|tertiary|unclassified|`+
			`residential|living_street|service|(motorway|trunk|primary|secondary)_link)$"]`+
			`(%v,%v,%v,%v);out geom;`,
		bound.Min[1], bound.Min[0], bound.Max[1], bound.Max[0])

	resp, err := c.query(ctx, ql)
	if err != nil {
		return nil, err
	}

	shapes := make([]geo.Shape, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		if len(el.Geometry) == 0 {
			continue
		}

		shape := make(geo.Shape, len(el.Geometry))
		for i, ll := range el.Geometry {
			shape[i] = geo.Coordinate{Lon: ll.Lon, Lat: ll.Lat}
		}

		shapes = append(shapes, shape)
	}

	return shapes, nil
}

// RailwayStationsNear enumerates railway stations within radiusKM of
// point, grounded on data.station.NearestStation's Overpass query.
func (c *Client) RailwayStationsNear(ctx context.Context, point geo.Coordinate, radiusKM float64) ([]geo.Coordinate, error) {
	ql := fmt.Sprintf(
		`[out:json];(node["railway"="station"](around:%v,%v,%v););out body geom;`,
		radiusKM*1000, point.Lat, point.Lon)

	resp, err := c.query(ctx, ql)
	if err != nil {
		return nil, err
	}

	stations := make([]geo.Coordinate, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		stations = append(stations, geo.Coordinate{Lon: el.Lon, Lat: el.Lat})
	}

	return stations, nil
}
