package geopath

import "math"

// wgs84SemiMajorAxisM is the WGS84 ellipsoid's semi-major axis, in meters.
const wgs84SemiMajorAxisM = 6378137.0

// nauticalMileMeters is the path tracker's distance unit.
const nauticalMileMeters = 1852.0

// earthRadiusNM is R_earth_nm from spec.md §4.G.
const earthRadiusNM = wgs84SemiMajorAxisM / nauticalMileMeters

// mobileMercator is a Mercator projection recentered on one geographic
// point, used to linearize short-range displacements around it in nautical
// miles.
type mobileMercator struct {
	meridian float64 // radians
	aK0      float64 // nm
	northing float64 // nm
}

func newMobileMercator(lonRad, latRad float64) mobileMercator {
	aK0 := math.Cos(latRad) * earthRadiusNM
	northing := -aK0 * math.Log(math.Tan(math.Pi/4+latRad/2))
	return mobileMercator{meridian: lonRad, aK0: aK0, northing: northing}
}

// forward projects a geographic point into the tangent plane, in nm from the
// projection's center.
func (m mobileMercator) forward(lonRad, latRad float64) (x, y float64) {
	x = m.aK0 * (lonRad - m.meridian)
	y = m.aK0*math.Log(math.Tan(math.Pi/4+latRad/2)) + m.northing
	return x, y
}

// inverse undoes forward.
func (m mobileMercator) inverse(x, y float64) (lonRad, latRad float64) {
	lonRad = x/m.aK0 + m.meridian
	latRad = math.Pi/2 - 2*math.Atan(math.Exp((m.northing-y)/m.aK0))
	return lonRad, latRad
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }
