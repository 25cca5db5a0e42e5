package coverage

import (
	"math"
	"time"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
	"github.com/oceanridge/coverage-engine/internal/coverage/slotcache"
)

// EvaluateI32 evaluates the integer bands at p and instant. On Miss, dest is
// zero-filled. Band values blend as round(lower + ratio*(upper-lower))
// across a bracket; there is no NaN salvage for integers.
func (e *Engine) EvaluateI32(p model.Point2D, instant time.Time, dest []int32) ([]int32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dest = ensureLenI32(dest, len(e.bands))
	outcome, err := e.seek(instant)
	if err != nil {
		return nil, err
	}
	if outcome == Miss {
		for i := range dest {
			dest[i] = 0
		}
		return dest, nil
	}

	switch e.cache.Mode() {
	case slotcache.Pinned:
		pp, err := e.projectPoint(p, e.cache.Lower().Raster.CoordinateSystem())
		if err != nil {
			return nil, err
		}
		return e.cache.Lower().Raster.EvaluateI32(pp, dest)
	default:
		low, high, err := e.evaluateBracketI32(p)
		if err != nil {
			return nil, err
		}
		ratio := ratioOf(instant, e.cache.LowerTime(), e.cache.UpperTime())
		for i := range dest {
			dest[i] = int32(math.Round(float64(low[i]) + ratio*float64(high[i]-low[i])))
		}
		return dest, nil
	}
}

func (e *Engine) evaluateBracketI32(p model.Point2D) (low, high []int32, err error) {
	pLow, err := e.projectPoint(p, e.cache.Lower().Raster.CoordinateSystem())
	if err != nil {
		return nil, nil, err
	}
	pHigh, err := e.projectPoint(p, e.cache.Upper().Raster.CoordinateSystem())
	if err != nil {
		return nil, nil, err
	}
	low, err = e.cache.Lower().Raster.EvaluateI32(pLow, nil)
	if err != nil {
		return nil, nil, EvaluationFailedError{Cause: err}
	}
	high, err = e.cache.Upper().Raster.EvaluateI32(pHigh, nil)
	if err != nil {
		return nil, nil, EvaluationFailedError{Cause: err}
	}
	return low, high, nil
}

// EvaluateF32 evaluates the float bands at p and instant. On Miss, dest is
// NaN-filled. When a blended value would be NaN because exactly one side of
// the bracket is NaN, the rule salvages the non-NaN side if its own frame's
// time_range contains instant, otherwise the result stays NaN.
func (e *Engine) EvaluateF32(p model.Point2D, instant time.Time, dest []float32) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dest = ensureLenF32(dest, len(e.bands))
	outcome, err := e.seek(instant)
	if err != nil {
		return nil, err
	}
	if outcome == Miss {
		for i := range dest {
			dest[i] = float32(math.NaN())
		}
		return dest, nil
	}

	switch e.cache.Mode() {
	case slotcache.Pinned:
		pp, err := e.projectPoint(p, e.cache.Lower().Raster.CoordinateSystem())
		if err != nil {
			return nil, err
		}
		return e.cache.Lower().Raster.EvaluateF32(pp, dest)
	default:
		pLow, err := e.projectPoint(p, e.cache.Lower().Raster.CoordinateSystem())
		if err != nil {
			return nil, err
		}
		pHigh, err := e.projectPoint(p, e.cache.Upper().Raster.CoordinateSystem())
		if err != nil {
			return nil, err
		}
		low, err := e.cache.Lower().Raster.EvaluateF32(pLow, nil)
		if err != nil {
			return nil, EvaluationFailedError{Cause: err}
		}
		high, err := e.cache.Upper().Raster.EvaluateF32(pHigh, nil)
		if err != nil {
			return nil, EvaluationFailedError{Cause: err}
		}
		ratio := float32(ratioOf(instant, e.cache.LowerTime(), e.cache.UpperTime()))
		lowerSlot, upperSlot := e.cache.Lower(), e.cache.Upper()
		for i := range dest {
			blend := low[i] + ratio*(high[i]-low[i])
			if math.IsNaN(float64(blend)) {
				dest[i] = float32(nanSalvage(float64(low[i]), float64(high[i]), instant, lowerSlot, upperSlot))
			} else {
				dest[i] = blend
			}
		}
		return dest, nil
	}
}

// EvaluateF64 is EvaluateF32's double-precision counterpart.
func (e *Engine) EvaluateF64(p model.Point2D, instant time.Time, dest []float64) ([]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dest = ensureLenF64(dest, len(e.bands))
	outcome, err := e.seek(instant)
	if err != nil {
		return nil, err
	}
	if outcome == Miss {
		for i := range dest {
			dest[i] = math.NaN()
		}
		return dest, nil
	}

	switch e.cache.Mode() {
	case slotcache.Pinned:
		pp, err := e.projectPoint(p, e.cache.Lower().Raster.CoordinateSystem())
		if err != nil {
			return nil, err
		}
		return e.cache.Lower().Raster.EvaluateF64(pp, dest)
	default:
		pLow, err := e.projectPoint(p, e.cache.Lower().Raster.CoordinateSystem())
		if err != nil {
			return nil, err
		}
		pHigh, err := e.projectPoint(p, e.cache.Upper().Raster.CoordinateSystem())
		if err != nil {
			return nil, err
		}
		low, err := e.cache.Lower().Raster.EvaluateF64(pLow, nil)
		if err != nil {
			return nil, EvaluationFailedError{Cause: err}
		}
		high, err := e.cache.Upper().Raster.EvaluateF64(pHigh, nil)
		if err != nil {
			return nil, EvaluationFailedError{Cause: err}
		}
		ratio := ratioOf(instant, e.cache.LowerTime(), e.cache.UpperTime())
		lowerSlot, upperSlot := e.cache.Lower(), e.cache.Upper()
		for i := range dest {
			blend := low[i] + ratio*(high[i]-low[i])
			if math.IsNaN(blend) {
				dest[i] = nanSalvage(low[i], high[i], instant, lowerSlot, upperSlot)
			} else {
				dest[i] = blend
			}
		}
		return dest, nil
	}
}

// nanSalvage implements the evaluator's NaN-salvage rule for one band: when
// exactly one side of a bracket is NaN, adopt the other side's value if that
// side's own frame documents coverage at instant; otherwise the band stays
// NaN.
func nanSalvage(low, high float64, instant time.Time, lowerSlot, upperSlot *slotcache.Slot) float64 {
	lowNaN, highNaN := math.IsNaN(low), math.IsNaN(high)
	switch {
	case lowNaN && highNaN:
		return math.NaN()
	case lowNaN:
		if upperSlot.HasRange && upperSlot.TimeRange.Contains(instant) {
			return high
		}
		return math.NaN()
	default: // highNaN
		if lowerSlot.HasRange && lowerSlot.TimeRange.Contains(instant) {
			return low
		}
		return math.NaN()
	}
}

// ratioOf computes the bracket-relative position of instant in [0,1];
// callers only invoke it when lowerTime != upperTime (Bracketed mode).
func ratioOf(instant, lowerTime, upperTime time.Time) float64 {
	den := upperTime.Sub(lowerTime).Seconds()
	if den == 0 {
		return 0
	}
	return instant.Sub(lowerTime).Seconds() / den
}

// EvaluateI32At3D is EvaluateI32's 3-D overload: point3 is a vector in the
// engine's coordinate-system axis order (Engine.CoordinateSystem().Axes),
// carrying instant_as_axis_value at the time axis index instead of taking
// the point and instant as separate arguments. It decomposes point3 back
// into the 2-D spatial point and instant, then evaluates exactly as
// EvaluateI32 would.
func (e *Engine) EvaluateI32At3D(point3 []float64, dest []int32) ([]int32, error) {
	p, instant, err := e.decompose3D(point3)
	if err != nil {
		return nil, err
	}
	return e.EvaluateI32(p, instant, dest)
}

// EvaluateF32At3D is EvaluateF32's 3-D overload; see EvaluateI32At3D.
func (e *Engine) EvaluateF32At3D(point3 []float64, dest []float32) ([]float32, error) {
	p, instant, err := e.decompose3D(point3)
	if err != nil {
		return nil, err
	}
	return e.EvaluateF32(p, instant, dest)
}

// EvaluateF64At3D is EvaluateF64's 3-D overload; see EvaluateI32At3D.
func (e *Engine) EvaluateF64At3D(point3 []float64, dest []float64) ([]float64, error) {
	p, instant, err := e.decompose3D(point3)
	if err != nil {
		return nil, err
	}
	return e.EvaluateF64(p, instant, dest)
}

// decompose3D splits a composed point3 vector (one value per axis of
// e.coordinateSystem, time embedded at TimeAxisIndex) back into the
// spatial Point2D and instant the 2-D Evaluate* entry points expect.
func (e *Engine) decompose3D(point3 []float64) (model.Point2D, time.Time, error) {
	cs := e.coordinateSystem // immutable post-construction, same as CoordinateSystem()
	t, ok := cs.TimeAxisIndex()
	if !ok || len(point3) != len(cs.Axes) {
		return model.Point2D{}, time.Time{}, ErrIncompatibleCoordinateSystems
	}

	var p model.Point2D
	spatialSeen := 0
	for i, v := range point3 {
		if i == t {
			continue
		}
		switch spatialSeen {
		case 0:
			p.X = v
		case 1:
			p.Y = v
		}
		spatialSeen++
	}
	if spatialSeen != 2 {
		return model.Point2D{}, time.Time{}, ErrIncompatibleCoordinateSystems
	}
	return p, axisValueAsInstant(point3[t]), nil
}

// instantAsAxisValue converts an instant into the numeric value placed at
// the coordinate system's time axis: fractional seconds since the Unix
// epoch. axisValueAsInstant inverts it.
func instantAsAxisValue(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func axisValueAsInstant(v float64) time.Time {
	sec := math.Floor(v)
	nsec := math.Round((v - sec) * 1e9)
	return time.Unix(int64(sec), int64(nsec))
}

func ensureLenI32(dest []int32, n int) []int32 {
	if cap(dest) >= n {
		return dest[:n]
	}
	return make([]int32, n)
}

func ensureLenF32(dest []float32, n int) []float32 {
	if cap(dest) >= n {
		return dest[:n]
	}
	return make([]float32, n)
}

func ensureLenF64(dest []float64, n int) []float64 {
	if cap(dest) >= n {
		return dest[:n]
	}
	return make([]float64, n)
}
