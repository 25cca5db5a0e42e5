package geopath_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanridge/coverage-engine/internal/geopath"
)

func TestScenario6_RotateAndMoveForward(t *testing.T) {
	p := geopath.NewAt(0, 0)
	p.Rotate(90) // turns clockwise: east (heading 0) -> south
	p.MoveForward(60)

	lon, lat := p.CurrentPosition()
	// 60 nm south of the equator barely changes longitude...
	assert.InDelta(t, 0, lon, 1e-6)
	// ...and moves about 1 degree of latitude south.
	assert.InDelta(t, -1.0, lat, 1e-2)
}

func TestMoveForwardThenBackwardReturnsToStart(t *testing.T) {
	p := geopath.NewAt(10, 20)
	p.Rotate(35)
	p.MoveForward(100)
	p.MoveForward(-100)

	lon1, lat1 := p.Position(0)
	lon2, lat2 := p.CurrentPosition()
	assert.InDelta(t, lon1, lon2, 1e-6)
	assert.InDelta(t, lat1, lat2, 1e-6)
}

func TestMoveTowardInfiniteDistanceReachesTargetExactly(t *testing.T) {
	p := geopath.NewAt(0, 0)
	reached := p.MoveToward(5, 5, math.Inf(1))
	assert.True(t, reached)
	lon, lat := p.CurrentPosition()
	assert.Equal(t, 5.0, lon)
	assert.Equal(t, 5.0, lat)
}

func TestMoveTowardPartialDoesNotReach(t *testing.T) {
	p := geopath.NewAt(0, 0)
	reached := p.MoveToward(10, 0, 1)
	assert.False(t, reached)
	lon, lat := p.CurrentPosition()
	assert.Greater(t, lon, 0.0)
	assert.Less(t, lon, 10.0)
	assert.InDelta(t, 0, lat, 1e-9)
}

func TestAppendGrowsAndTracksBounds(t *testing.T) {
	p := geopath.New()
	for i := 0; i < 2000; i++ {
		p.Append(float64(i%10), float64(-(i % 7)))
	}
	require.Equal(t, 2000, p.PositionCount())
	b := p.BoundsDeg()
	assert.Equal(t, 0.0, b.MinLon)
	assert.Equal(t, 9.0, b.MaxLon)
	assert.Equal(t, -6.0, b.MinLat)
	assert.Equal(t, 0.0, b.MaxLat)
}

func TestBoundsInteger_RoundsOutward(t *testing.T) {
	p := geopath.NewAt(1.2, -3.8)
	p.Append(4.1, 2.2)
	ir := p.BoundsInteger()
	assert.Equal(t, 1, ir.MinLon)
	assert.Equal(t, -4, ir.MinLat)
	assert.Equal(t, 5, ir.MaxLon)
	assert.Equal(t, 3, ir.MaxLat)
}

func TestIterateIsRestartable(t *testing.T) {
	p := geopath.NewAt(1, 2)
	p.Append(3, 4)
	first := p.Iterate()
	second := p.Iterate()
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, geopath.Vertex{LonDeg: 1, LatDeg: 2}, first[0])
}

func TestEqual(t *testing.T) {
	a := geopath.NewAt(1, 2)
	a.Append(3, 4)
	b := geopath.NewAt(1, 2)
	b.Append(3, 4)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	b.Append(5, 6)
	assert.False(t, a.Equal(b))
}

func TestMarshalRoundTrip(t *testing.T) {
	p := geopath.NewAt(12.5, -45.25)
	p.Append(13.0, -44.0)
	p.Rotate(17.5)

	data, err := p.MarshalBinary()
	require.NoError(t, err)

	var decoded geopath.Path
	require.NoError(t, decoded.UnmarshalBinary(data))

	assert.True(t, p.Equal(&decoded))
	assert.Equal(t, p.HeadingDeg(), decoded.HeadingDeg())
	assert.Equal(t, p.BoundsDeg(), decoded.BoundsDeg())
}

func TestRelativeToGeographicEnclosesCorners(t *testing.T) {
	p := geopath.NewAt(0, 0)
	rect := p.RelativeToGeographic(geopath.RectNM{MinX: -60, MinY: -60, MaxX: 60, MaxY: 60})
	assert.InDelta(t, -1.0, rect.MinLon, 1e-2)
	assert.InDelta(t, 1.0, rect.MaxLon, 1e-2)
	assert.InDelta(t, -1.0, rect.MinLat, 1e-2)
	assert.InDelta(t, 1.0, rect.MaxLat, 1e-2)
}
