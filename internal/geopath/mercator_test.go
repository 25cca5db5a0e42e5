package geopath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMercator_ForwardInverseIdentity(t *testing.T) {
	center := newMobileMercator(degToRad(12), degToRad(45))

	for _, pt := range [][2]float64{
		{12, 45}, {13.5, 44}, {-10, 79}, {180, -79}, {0, 0},
	} {
		lonRad, latRad := degToRad(pt[0]), degToRad(pt[1])
		x, y := center.forward(lonRad, latRad)
		gotLon, gotLat := center.inverse(x, y)
		assert.InDelta(t, lonRad, gotLon, 1e-9)
		assert.InDelta(t, latRad, gotLat, 1e-9)
	}
}

func TestMercator_InverseForwardIdentity(t *testing.T) {
	center := newMobileMercator(degToRad(-70), degToRad(-10))
	for _, xy := range [][2]float64{
		{0, 0}, {100, -50}, {-200, 300},
	} {
		lonRad, latRad := center.inverse(xy[0], xy[1])
		x, y := center.forward(lonRad, latRad)
		assert.InDelta(t, xy[0], x, 1e-9)
		assert.InDelta(t, xy[1], y, 1e-9)
	}
}

func TestEarthRadiusNM(t *testing.T) {
	assert.InDelta(t, 3443.9, earthRadiusNM, 0.1)
	assert.True(t, math.Abs(earthRadiusNM-wgs84SemiMajorAxisM/nauticalMileMeters) < 1e-9)
}
