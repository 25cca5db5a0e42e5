package coverage

import (
	"errors"
	"fmt"
)

// ErrOutsideCoverage is returned when a seek's insertion point lands at a
// boundary (before the first frame or after the last) and the sole
// adjacent frame's time_range does not contain the sought instant.
var ErrOutsideCoverage = errors.New("coverage: instant outside catalogue coverage")

// ErrIncompatibleCoordinateSystems is returned when a frame's coordinate
// system cannot be reconciled with the engine's target coordinate system
// by axis reordering alone.
var ErrIncompatibleCoordinateSystems = errors.New("coverage: incompatible coordinate systems")

// ErrInconsistentBands is returned at construction when the catalogue's
// descriptors do not all agree on SampleBands.
var ErrInconsistentBands = errors.New("coverage: catalogue descriptors disagree on sample bands")

// EvaluationFailedError wraps a decoder or I/O failure encountered while
// servicing a seek. It is distinct from a documented Miss: a Miss is a
// normal outcome (no data for that instant), this is not.
type EvaluationFailedError struct {
	Cause error
}

func (e EvaluationFailedError) Error() string {
	return fmt.Sprintf("coverage: evaluation failed: %v", e.Cause)
}

func (e EvaluationFailedError) Unwrap() error { return e.Cause }

// errMissingTimeRange marks an internal invariant violation: an interior
// bracketing candidate (never timeless, by construction of timeindex.Search)
// reported no time range.
var errMissingTimeRange = errors.New("coverage: interior frame missing time range")

// errCancelled is the cause EvaluationFailedError carries when Engine.Abort
// cancels an in-flight decode.
var errCancelled = errors.New("coverage: decode cancelled")
