package proj

import "math"

// Destination returns the point reached from (lon, lat) after travelling
// dist (same unit as radius) along the great circle with initial bearing az
// (degrees clockwise from north).
func Destination(lon, lat, az, dist, radius float64) (float64, float64) {
	phi1, lam1 := lat*d2r, lon*d2r
	theta := az * d2r
	delta := dist / radius

	sinPhi2 := math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta)
	sinPhi2 = math.Max(-1, math.Min(1, sinPhi2))
	phi2 := math.Asin(sinPhi2)
	lam2 := lam1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*sinPhi2,
	)
	return lam2 * r2d, phi2 * r2d
}

// Bearing returns the initial great-circle bearing from (lon1, lat1) to
// (lon2, lat2) in degrees clockwise from north, within [0, 360).
func Bearing(lon1, lat1, lon2, lat2 float64) float64 {
	phi1, phi2 := lat1*d2r, lat2*d2r
	dlam := (lon2 - lon1) * d2r
	y := math.Sin(dlam) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dlam)
	return math.Mod(math.Atan2(y, x)*r2d+360, 360)
}
