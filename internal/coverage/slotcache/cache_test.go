package slotcache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
	"github.com/oceanridge/coverage-engine/internal/coverage/slotcache"
)

type stubRaster struct{}

func (stubRaster) EvaluateI32(model.Point2D, []int32) ([]int32, error)     { return nil, nil }
func (stubRaster) EvaluateF32(model.Point2D, []float32) ([]float32, error) { return nil, nil }
func (stubRaster) EvaluateF64(model.Point2D, []float64) ([]float64, error) { return nil, nil }
func (stubRaster) CoordinateSystem() model.CS                             { return model.CS{} }
func (stubRaster) GridGeometry() model.GridGeometry                       { return model.GridGeometry{} }

type stubDescriptor struct {
	id string
	ct time.Time
}

func (d stubDescriptor) ID() string                     { return d.id }
func (d stubDescriptor) TimeRange() (model.TimeRange, bool) {
	return model.TimeRange{Start: d.ct, End: d.ct.Add(time.Minute)}, true
}
func (d stubDescriptor) CenterTime() time.Time            { return d.ct }
func (d stubDescriptor) Envelope() model.Envelope         { return model.Envelope{} }
func (d stubDescriptor) GeographicArea() model.Rectangle  { return model.Rectangle{} }
func (d stubDescriptor) GridGeometry() model.GridGeometry { return model.GridGeometry{} }
func (d stubDescriptor) SampleBands() []model.Band        { return nil }
func (d stubDescriptor) CoordinateSystem() model.CS       { return model.CS{} }

func TestCache_LoadSingle(t *testing.T) {
	c := &slotcache.Cache{}
	d := stubDescriptor{id: "a", ct: time.UnixMilli(100)}
	err := c.LoadSingle(d, func(model.Descriptor) (model.Raster, error) { return stubRaster{}, nil })
	require.NoError(t, err)
	assert.Equal(t, slotcache.Pinned, c.Mode())
	assert.True(t, c.Covers(time.UnixMilli(100)))
	assert.False(t, c.Covers(time.UnixMilli(101)))
}

func TestCache_LoadPair_AtomicOnFailure(t *testing.T) {
	c := &slotcache.Cache{}
	lower := stubDescriptor{id: "lo", ct: time.UnixMilli(100)}
	upper := stubDescriptor{id: "hi", ct: time.UnixMilli(200)}
	boom := errors.New("decode failed")

	err := c.LoadPair(lower, upper, func(d model.Descriptor) (model.Raster, error) {
		if d.(stubDescriptor).id == "hi" {
			return nil, boom
		}
		return stubRaster{}, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, slotcache.Empty, c.Mode())
	assert.Nil(t, c.Lower())
}

func TestCache_LoadPair_Success(t *testing.T) {
	c := &slotcache.Cache{}
	lower := stubDescriptor{id: "lo", ct: time.UnixMilli(100)}
	upper := stubDescriptor{id: "hi", ct: time.UnixMilli(200)}

	err := c.LoadPair(lower, upper, func(model.Descriptor) (model.Raster, error) { return stubRaster{}, nil })
	require.NoError(t, err)
	assert.Equal(t, slotcache.Bracketed, c.Mode())
	assert.True(t, c.Covers(time.UnixMilli(150)))
	assert.False(t, c.Covers(time.UnixMilli(250)))

	c.Invalidate()
	assert.Equal(t, slotcache.Empty, c.Mode())
	assert.False(t, c.Covers(time.UnixMilli(150)))
}
