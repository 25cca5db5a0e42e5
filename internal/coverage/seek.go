package coverage

import (
	"time"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
	"github.com/oceanridge/coverage-engine/internal/coverage/timeindex"
)

// Outcome is the result of a seek: either the cache now brackets (or pins)
// instant, or the catalogue documents no data there.
type Outcome int

const (
	// Hit means the cache covers instant and an evaluate may proceed.
	Hit Outcome = iota
	// Miss means the catalogue documents a gap at instant: not an error,
	// just no data.
	Miss
)

// seek is the component C state machine. Callers must hold e.mu.
//
//  1. Cache check: if the current cache already covers instant, Hit with no I/O.
//  2. Binary search the time index for instant.
//  3. Exact match: load that single frame, Hit.
//  4. Insertion at a boundary (before the first real frame or after the
//     last): load the sole adjacent frame if its time_range contains
//     instant, else Miss with ErrOutsideCoverage.
//  5. Interior insertion: test the gap between the bracketing pair; if it
//     exceeds maxTimeGap, Miss. Otherwise, when interpolation is
//     disallowed, pin to the nearer of the two frames instead of loading
//     the pair; when it's allowed, load the pair and Hit.
//
// I/O failures at any load step propagate as EvaluationFailedError rather
// than resolving to Miss.
func (e *Engine) seek(instant time.Time) (Outcome, error) {
	if e.cache.Covers(instant) {
		return Hit, nil
	}

	res := e.index.Search(instant)
	n := e.index.Len()
	firstReal := e.index.FirstRealIndex()

	if res.Kind == timeindex.Exact {
		if err := e.loadSingle(res.Index); err != nil {
			return Miss, err
		}
		return Hit, nil
	}

	idx := res.Index
	switch {
	case n == 0:
		// Empty catalogue: no descriptors at all, every evaluate Misses
		// rather than reporting a coverage boundary that doesn't exist.
		return Miss, nil
	case firstReal == n:
		// Descriptors exist but none carry a time range, so the
		// catalogue's time coverage is the empty set: every instant is
		// outside it.
		return Miss, ErrOutsideCoverage
	case idx == n:
		return e.seekBoundary(n-1, instant)
	case idx == firstReal:
		return e.seekBoundary(firstReal, instant)
	default:
		return e.seekInterior(idx-1, idx, instant)
	}
}

func (e *Engine) seekBoundary(adjacent int, instant time.Time) (Outcome, error) {
	tr, ok := e.index.TimeRange(adjacent)
	if !ok || !tr.Contains(instant) {
		return Miss, ErrOutsideCoverage
	}
	if err := e.loadSingle(adjacent); err != nil {
		return Miss, err
	}
	return Hit, nil
}

func (e *Engine) seekInterior(lo, hi int, instant time.Time) (Outcome, error) {
	loRange, loOK := e.index.TimeRange(lo)
	hiRange, hiOK := e.index.TimeRange(hi)
	if !loOK || !hiOK {
		return Miss, EvaluationFailedError{Cause: errMissingTimeRange}
	}
	// Frames whose ranges exactly touch (gap == 0) are contiguous, not a
	// hole, even with the default zero max_time_gap; only a strictly
	// positive gap beyond the configured tolerance is a hole.
	if gap := hiRange.Start.Sub(loRange.End); gap > e.maxTimeGap {
		return Miss, nil
	}
	if !e.interpolationAllowed {
		// Non-interpolating contract: pin to whichever of lo/hi has the
		// closer center_time instead of loading the pair for a blend.
		nearest, _, ok := e.index.NearestReal(instant)
		if !ok {
			return Miss, EvaluationFailedError{Cause: errMissingTimeRange}
		}
		if err := e.loadSingle(nearest); err != nil {
			return Miss, err
		}
		return Hit, nil
	}
	if err := e.loadPair(lo, hi); err != nil {
		return Miss, err
	}
	return Hit, nil
}

func (e *Engine) loadSingle(idx int) error {
	d := e.index.Descriptor(idx)
	err := e.cache.LoadSingle(d, e.decode)
	if err != nil {
		e.recordLoad("load.single.failed", []model.Descriptor{d}, err)
		return EvaluationFailedError{Cause: err}
	}
	e.lastInterpolated = nil
	e.recordLoad("load.single", []model.Descriptor{d}, nil)
	return nil
}

func (e *Engine) loadPair(loIdx, hiIdx int) error {
	loD := e.index.Descriptor(loIdx)
	hiD := e.index.Descriptor(hiIdx)
	err := e.cache.LoadPair(loD, hiD, e.decode)
	if err != nil {
		e.recordLoad("load.pair.failed", []model.Descriptor{loD, hiD}, err)
		return EvaluationFailedError{Cause: err}
	}
	e.lastInterpolated = nil
	e.recordLoad("load.pair", []model.Descriptor{loD, hiD}, nil)
	return nil
}
