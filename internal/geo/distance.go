package geo

import "github.com/tidwall/geodesic"

// Distance returns the surface distance in meters between two points on the
// WGS-84 ellipsoid. Coordinates are decimal degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	var meters float64
	geodesic.WGS84.Inverse(lat1, lon1, lat2, lon2, &meters, nil, nil)
	return meters
}
