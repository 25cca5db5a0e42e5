package coverage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanridge/coverage-engine/internal/coverage"
	"github.com/oceanridge/coverage-engine/internal/coverage/model"
)

func TestEvaluateI32_RoundsBlend(t *testing.T) {
	descs := []model.Descriptor{
		testDescriptor{id: "lo", tr: rng(0, 50), values: []float64{10}},
		testDescriptor{id: "hi", tr: rng(100, 50), values: []float64{13}},
	}
	e, err := coverage.New(testCatalogue{descs}, testDecoder{}, coverage.Options{InterpolationAllowed: true})
	require.NoError(t, err)

	got, err := e.EvaluateI32(model.Point2D{}, ms(75), nil)
	require.NoError(t, err)
	// ratio 0.75 -> 10 + 0.75*3 = 12.25 -> rounds to 12
	assert.Equal(t, []int32{12}, got)
}

func TestEvaluateF32_Blend(t *testing.T) {
	descs := []model.Descriptor{
		testDescriptor{id: "lo", tr: rng(0, 50), values: []float64{1}},
		testDescriptor{id: "hi", tr: rng(100, 50), values: []float64{3}},
	}
	e, err := coverage.New(testCatalogue{descs}, testDecoder{}, coverage.Options{InterpolationAllowed: true})
	require.NoError(t, err)

	got, err := e.EvaluateF32(model.Point2D{}, ms(50), nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, float64(got[0]), 1e-5)
}

// axisVal mirrors the unexported instantAsAxisValue conversion so tests in
// this external package can build a 3-D coordinate by hand.
func axisVal(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func TestEvaluateF64At3D_ComposesPointAndInstant(t *testing.T) {
	descs := []model.Descriptor{
		testDescriptor{id: "lo", tr: rng(0, 50), values: []float64{1}},
		testDescriptor{id: "hi", tr: rng(100, 50), values: []float64{3}},
	}
	e, err := coverage.New(testCatalogue{descs}, testDecoder{}, coverage.Options{InterpolationAllowed: true})
	require.NoError(t, err)

	// testCS axes are x, y, t: place the instant at index 2.
	point3 := []float64{0, 0, axisVal(ms(50))}
	got3, err := e.EvaluateF64At3D(point3, nil)
	require.NoError(t, err)

	got2, err := e.EvaluateF64(model.Point2D{X: 0, Y: 0}, ms(50), nil)
	require.NoError(t, err)
	assert.Equal(t, got2, got3)
}

func TestEvaluateF64At3D_WrongLengthIsIncompatible(t *testing.T) {
	descs := []model.Descriptor{
		testDescriptor{id: "lo", tr: rng(0, 50), values: []float64{1}},
	}
	e, err := coverage.New(testCatalogue{descs}, testDecoder{}, coverage.Options{InterpolationAllowed: true})
	require.NoError(t, err)

	_, err = e.EvaluateF64At3D([]float64{0, 0}, nil)
	assert.ErrorIs(t, err, coverage.ErrIncompatibleCoordinateSystems)
}

func TestEvaluateTwiceIsBitIdentical(t *testing.T) {
	descs := []model.Descriptor{
		testDescriptor{id: "lo", tr: rng(0, 50), values: []float64{1, 2}},
		testDescriptor{id: "hi", tr: rng(100, 50), values: []float64{3, 4}},
	}
	e, err := coverage.New(testCatalogue{descs}, testDecoder{}, coverage.Options{InterpolationAllowed: true})
	require.NoError(t, err)

	got1, err := e.EvaluateF64(model.Point2D{}, ms(37), nil)
	require.NoError(t, err)
	got2, err := e.EvaluateF64(model.Point2D{}, ms(37), nil)
	require.NoError(t, err)
	assert.Equal(t, got1, got2)
}
