package coverage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanridge/coverage-engine/internal/coverage"
	"github.com/oceanridge/coverage-engine/internal/coverage/model"
)

func TestGetSlice_EndpointEpsilon(t *testing.T) {
	descs := []model.Descriptor{
		testDescriptor{id: "lo", tr: rng(0, 50), values: []float64{1}},
		testDescriptor{id: "hi", tr: rng(100, 50), values: []float64{9}},
	}
	e, err := coverage.New(testCatalogue{descs}, testDecoder{}, coverage.Options{InterpolationAllowed: true})
	require.NoError(t, err)

	// Load the bracket first, so ms(0) is served from the Bracketed cache
	// with ratio 0 rather than as an exact (Pinned) hit.
	_, err = e.GetSlice(ms(40))
	require.NoError(t, err)

	slice, err := e.GetSlice(ms(0))
	require.NoError(t, err)
	got, _ := slice.EvaluateF64(model.Point2D{}, nil)
	assert.Equal(t, []float64{1}, got, "ratio 0 returns the lower endpoint raster directly")
}

func TestGetSlice_CachesLastInterpolated(t *testing.T) {
	var combines int
	descs := []model.Descriptor{
		testDescriptor{id: "lo", tr: rng(0, 50), values: []float64{1}},
		testDescriptor{id: "hi", tr: rng(100, 50), values: []float64{9}},
	}
	dec := countingDecoder{testDecoder: testDecoder{}, combines: &combines}
	e, err := coverage.New(testCatalogue{descs}, dec, coverage.Options{InterpolationAllowed: true})
	require.NoError(t, err)

	_, err = e.GetSlice(ms(40))
	require.NoError(t, err)
	_, err = e.GetSlice(ms(40))
	require.NoError(t, err)
	assert.Equal(t, 1, combines, "repeating the same instant must reuse the cached interpolated slice")
}

type countingDecoder struct {
	testDecoder
	combines *int
}

func (d countingDecoder) LinearCombine(lower, upper model.Raster, ratio float64) (model.Raster, error) {
	*d.combines++
	return d.testDecoder.LinearCombine(lower, upper, ratio)
}
