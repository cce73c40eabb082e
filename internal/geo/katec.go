package geo

import (
	"fmt"
	"strconv"
)

// The tourism API encodes map coordinates as integers scaled by 1e6.
const katecScale = 1e6

// Decimal-degree bounds of the Korean peninsula; coordinates outside them are
// treated as bad upstream data and rejected.
const (
	minLongitude = 124.0
	maxLongitude = 132.0
	minLatitude  = 33.0
	maxLatitude  = 43.0
)

// FromKATEC converts the API's integer-encoded coordinate pair to decimal
// degrees, rejecting values outside the Korean peninsula.
func FromKATEC(mapX, mapY int64) (lon, lat float64, err error) {
	lon = float64(mapX) / katecScale
	lat = float64(mapY) / katecScale

	if lon < minLongitude || lon > maxLongitude {
		return 0, 0, fmt.Errorf("longitude %f out of range [%g, %g]", lon, minLongitude, maxLongitude)
	}
	if lat < minLatitude || lat > maxLatitude {
		return 0, 0, fmt.Errorf("latitude %f out of range [%g, %g]", lat, minLatitude, maxLatitude)
	}
	return lon, lat, nil
}

// FromKATECString converts the string-encoded mapx/mapy fields as the API
// delivers them. Empty strings and non-integer values are reported as errors;
// the caller decides whether to drop the map block or fail.
func FromKATECString(mapX, mapY string) (lon, lat float64, err error) {
	x, err := strconv.ParseInt(mapX, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid mapx %q: %w", mapX, err)
	}
	y, err := strconv.ParseInt(mapY, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid mapy %q: %w", mapY, err)
	}
	return FromKATEC(x, y)
}
