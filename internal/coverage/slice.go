package coverage

import (
	"math"
	"time"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
	"github.com/oceanridge/coverage-engine/internal/coverage/slotcache"
)

// sliceEpsilon is how close a bracket ratio may sit to 0 or 1 before
// GetSlice returns the endpoint raster itself instead of interpolating.
const sliceEpsilon = 1e-6

// GetSlice returns the 2-D raster slice covering instant: the pinned frame
// on an exact hit, an endpoint frame when the bracket ratio rounds to 0 or
// 1, the cached last-interpolated result when instant repeats the previous
// call, or a freshly linear-combined raster otherwise. Returns (nil, nil)
// on Miss.
func (e *Engine) GetSlice(instant time.Time) (model.Raster, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	outcome, err := e.seek(instant)
	if err != nil {
		return nil, err
	}
	if outcome == Miss {
		return nil, nil
	}

	switch e.cache.Mode() {
	case slotcache.Pinned:
		return e.cache.Lower().Raster, nil
	default:
		return e.bracketedSlice(instant)
	}
}

func (e *Engine) bracketedSlice(instant time.Time) (model.Raster, error) {
	if !e.interpolationAllowed {
		return e.nearestOf(instant), nil
	}

	ratio := ratioOf(instant, e.cache.LowerTime(), e.cache.UpperTime())
	if math.Abs(ratio) <= sliceEpsilon {
		return e.cache.Lower().Raster, nil
	}
	if math.Abs(1-ratio) <= sliceEpsilon {
		return e.cache.Upper().Raster, nil
	}

	if e.lastInterpolated != nil && e.lastInterpolated.instant.Equal(instant) {
		return e.lastInterpolated.raster, nil
	}

	result, err := e.decoder.LinearCombine(e.cache.Lower().Raster, e.cache.Upper().Raster, ratio)
	if err != nil {
		return nil, EvaluationFailedError{Cause: err}
	}
	e.lastInterpolated = &cachedSlice{instant: instant, raster: result}
	return result, nil
}

// nearestOf returns whichever bracket endpoint's center time is closer to
// instant, ties broken toward the later (upper) frame.
func (e *Engine) nearestOf(instant time.Time) model.Raster {
	lower, upper := e.cache.Lower(), e.cache.Upper()
	loDelta := instant.Sub(lower.CenterTime)
	hiDelta := upper.CenterTime.Sub(instant)
	if hiDelta <= loDelta {
		return upper.Raster
	}
	return lower.Raster
}
