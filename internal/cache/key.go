package cache

import (
	"sort"
	"strings"

	"github.com/foesi/such-route/internal/geo"
)

// RouteKeyPrefix returns the key prefix shared by every cache entry
// for the given algorithm/src/dst pair, regardless of nogo regions —
// used both to build the full key and to scan for relaxed-route reuse
// candidates (spec.md §4.4 step 2).
func RouteKeyPrefix(algorithm string, src, dst geo.Coordinate) string {
	return algorithm + ":" + src.String() + ":" + dst.String()
}

// BuildRouteKey returns the canonical cache key for a routing query:
// "<algo>:(src_lon,src_lat):(dst_lon,dst_lat)[:R1,R2,...]", with nogo
// codes sorted lexicographically so the key is deterministic
// regardless of the order nogos were supplied in.
func BuildRouteKey(algorithm string, src, dst geo.Coordinate, nogos []string) string {
	key := RouteKeyPrefix(algorithm, src, dst)

	if len(nogos) == 0 {
		return key
	}

	sorted := append([]string(nil), nogos...)
	sort.Strings(sorted)

	return key + ":" + strings.Join(sorted, ",")
}
