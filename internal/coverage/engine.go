package coverage

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
	"github.com/oceanridge/coverage-engine/internal/coverage/slotcache"
	"github.com/oceanridge/coverage-engine/internal/coverage/timeindex"
	"github.com/oceanridge/coverage-engine/internal/monitoring"
)

// DefaultCS is used when an Engine is constructed with a nil TargetCS and
// the catalogue is empty, so the engine always has a well-formed target
// coordinate system to report.
var DefaultCS = model.CS{Name: "default", Axes: []string{"x", "y", "t"}}

// EventRecorder observes every load decision the engine makes, satisfying
// the "stable event code and parameters" observability requirement.
// Implementations must not block the engine for long; eventlog.EventLog
// implements this against a SQLite-backed log.
type EventRecorder interface {
	RecordLoad(code string, descriptorIDs []string, cause error)
}

// Options configures a new Engine. Zero values are valid except where noted.
type Options struct {
	// TargetCS is the coordinate system Evaluate*/Snap callers address
	// points in. If nil, the coordinate system of the catalogue's first
	// descriptor is used, or DefaultCS if the catalogue is empty.
	TargetCS *model.CS
	// MaxTimeGap bounds adjacent-frame interpolation: if the gap between a
	// bracketing pair's time ranges exceeds this, the seek reports Miss (a
	// data hole) rather than bridging the pair; a gap equal to it is
	// bridged. Zero means frames must be exactly contiguous.
	MaxTimeGap time.Duration
	// InterpolationAllowed, when false, causes every loaded raster to be
	// wrapped with the decoder's nearest-neighbor adapter instead of being
	// blended across the bracket.
	InterpolationAllowed bool
	// Recorder, if non-nil, is notified of every load decision.
	Recorder EventRecorder
}

type cachedSlice struct {
	instant time.Time
	raster  model.Raster
}

// Engine is the coverage engine: a pure function of a catalogue of rasters,
// backed by a bounded two-slot cache of decoded frames.
//
// Engine serializes Seek, Evaluate*, GetSlice, Snap and
// SetInterpolationAllowed behind mu, matching spec.md's single-writer
// concurrency model. timeindex.Index is immutable post-construction and safe
// to read concurrently; FrameCount and TimeRange read it without taking mu.
// Everything that touches the slot cache or lastInterpolated holds mu.
type Engine struct {
	mu sync.Mutex

	index            *timeindex.Index
	decoder          model.Decoder
	coordinateSystem model.CS
	spatialAxes      []string
	envelope         model.Envelope
	geographicArea   model.Rectangle
	bands            []model.Band

	maxTimeGap           time.Duration
	interpolationAllowed bool

	cache            slotcache.Cache
	lastInterpolated *cachedSlice

	recorder          EventRecorder
	progressListeners map[string]model.ProgressListener
	warningListeners  map[string]model.WarningListener

	abortMu        sync.Mutex
	cancelInFlight context.CancelFunc
}

// randomID returns an 8-byte random hex token, used to identify a
// registered listener for later removal.
func randomID() string {
	b := make([]byte, 8)
	crand.Read(b)
	return hex.EncodeToString(b)
}

// New constructs an Engine over catalogue's descriptors. It returns
// ErrInconsistentBands if the descriptors disagree on SampleBands.
func New(catalogue model.Catalogue, decoder model.Decoder, opts Options) (*Engine, error) {
	descriptors, err := catalogue.Descriptors()
	if err != nil {
		return nil, err
	}

	var bands []model.Band
	var envelope model.Envelope
	var geo model.Rectangle
	for i, d := range descriptors {
		if i == 0 {
			bands = d.SampleBands()
			envelope = d.Envelope()
			geo = d.GeographicArea()
			continue
		}
		if !model.BandsEqual(bands, d.SampleBands()) {
			return nil, ErrInconsistentBands
		}
		envelope = envelope.Union(d.Envelope())
		geo = geo.Union(d.GeographicArea())
	}

	cs := DefaultCS
	switch {
	case opts.TargetCS != nil:
		cs = *opts.TargetCS
	case len(descriptors) > 0:
		cs = descriptors[0].CoordinateSystem()
	}

	e := &Engine{
		index:                timeindex.New(descriptors),
		decoder:              decoder,
		coordinateSystem:     cs,
		spatialAxes:          cs.SpatialAxes(),
		envelope:             envelope,
		geographicArea:       geo,
		bands:                bands,
		maxTimeGap:           opts.MaxTimeGap,
		interpolationAllowed: opts.InterpolationAllowed,
		recorder:             opts.Recorder,
		progressListeners:    make(map[string]model.ProgressListener),
		warningListeners:     make(map[string]model.WarningListener),
	}
	return e, nil
}

// CoordinateSystem returns the engine's target coordinate system.
func (e *Engine) CoordinateSystem() model.CS { return e.coordinateSystem }

// Envelope returns the union envelope of every indexed descriptor.
func (e *Engine) Envelope() model.Envelope { return e.envelope }

// GeographicArea returns the union geographic footprint of every indexed descriptor.
func (e *Engine) GeographicArea() model.Rectangle { return e.geographicArea }

// SampleBands returns the (shared) sample band metadata of the catalogue.
func (e *Engine) SampleBands() []model.Band { return e.bands }

// FrameCount returns the number of indexed descriptors.
func (e *Engine) FrameCount() int { return e.index.Len() }

// TimeRange returns the union time range of every real (non-timeless)
// indexed descriptor. ok is false for an empty catalogue or one holding
// only timeless descriptors.
func (e *Engine) TimeRange() (start, end time.Time, ok bool) {
	first := e.index.FirstRealIndex()
	n := e.index.Len()
	if first == n {
		return time.Time{}, time.Time{}, false
	}
	start, end = time.Time{}, time.Time{}
	for i := first; i < n; i++ {
		tr, hasRange := e.index.TimeRange(i)
		if !hasRange {
			continue
		}
		if start.IsZero() || tr.Start.Before(start) {
			start = tr.Start
		}
		if end.IsZero() || tr.End.After(end) {
			end = tr.End
		}
	}
	return start, end, true
}

// AddProgressListener registers l to be notified of decode progress. The
// returned token identifies l for a later RemoveProgressListener call.
func (e *Engine) AddProgressListener(l model.ProgressListener) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := randomID()
	e.progressListeners[id] = l
	return id
}

// RemoveProgressListener unregisters the listener previously returned by
// AddProgressListener. Removing an unknown or already-removed token is a
// no-op.
func (e *Engine) RemoveProgressListener(token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.progressListeners, token)
}

// AddWarningListener registers l to be notified of non-fatal decode
// anomalies. The returned token identifies l for a later
// RemoveWarningListener call.
func (e *Engine) AddWarningListener(l model.WarningListener) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := randomID()
	e.warningListeners[id] = l
	return id
}

// RemoveWarningListener unregisters the listener previously returned by
// AddWarningListener. Removing an unknown or already-removed token is a
// no-op.
func (e *Engine) RemoveWarningListener(token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.warningListeners, token)
}

// SetInterpolationAllowed toggles whether newly loaded rasters are blended
// or nearest-neighbor-wrapped. It invalidates the current cache so the next
// evaluate reloads under the new policy; it does not retroactively rewrap
// already-cached rasters.
func (e *Engine) SetInterpolationAllowed(allowed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.interpolationAllowed == allowed {
		return
	}
	e.interpolationAllowed = allowed
	e.cache.Invalidate()
	e.lastInterpolated = nil
}

// Abort cancels whichever decode is currently in flight, if any, causing it
// to terminate early with EvaluationFailedError wrapping "cancelled".
// Unlike Evaluate*, GetSlice, Snap and the listener and interpolation
// setters, Abort does not take e.mu: a decode
// holds e.mu for its whole duration, so Abort needs its own lock to be
// callable from another goroutine while Evaluate*/GetSlice/Snap blocks.
func (e *Engine) Abort() {
	e.abortMu.Lock()
	defer e.abortMu.Unlock()
	if e.cancelInFlight != nil {
		e.cancelInFlight()
	}
}

func (e *Engine) decode(d model.Descriptor) (model.Raster, error) {
	ctx, cancel := context.WithCancel(context.Background())
	e.abortMu.Lock()
	e.cancelInFlight = cancel
	e.abortMu.Unlock()
	defer func() {
		e.abortMu.Lock()
		e.cancelInFlight = nil
		e.abortMu.Unlock()
		cancel()
	}()

	r, err := e.decoder.Materialize(ctx, d, e.progressListenerSlice())
	if err != nil {
		if ctx.Err() != nil {
			return nil, errCancelled
		}
		return nil, err
	}
	if !e.interpolationAllowed {
		r = e.decoder.WrapNearestNeighbor(r)
	}
	return r, nil
}

func (e *Engine) progressListenerSlice() []model.ProgressListener {
	out := make([]model.ProgressListener, 0, len(e.progressListeners))
	for _, l := range e.progressListeners {
		out = append(out, l)
	}
	return out
}

func (e *Engine) recordLoad(code string, descriptors []model.Descriptor, cause error) {
	if e.recorder == nil {
		return
	}
	ids := make([]string, len(descriptors))
	for i, d := range descriptors {
		ids[i] = d.ID()
	}
	e.recorder.RecordLoad(code, ids, cause)
}

func (e *Engine) warn(descriptorID, message string, cause error) {
	monitoring.Logf("coverage: %s: %s: %v", descriptorID, message, cause)
	for _, l := range e.warningListeners {
		l(model.WarningEvent{DescriptorID: descriptorID, Message: message, Err: cause})
	}
}

// projectPoint reprojects p, given in the engine's spatial axis order, into
// frameCS's axis order. The two coordinate systems must name the same pair
// of spatial axes; only reordering is supported.
func (e *Engine) projectPoint(p model.Point2D, frameCS model.CS) (model.Point2D, error) {
	frameSpatial := frameCS.SpatialAxes()
	if len(e.spatialAxes) != 2 || len(frameSpatial) != 2 {
		return model.Point2D{}, ErrIncompatibleCoordinateSystems
	}
	values := map[string]float64{
		e.spatialAxes[0]: p.X,
		e.spatialAxes[1]: p.Y,
	}
	x, okX := values[frameSpatial[0]]
	y, okY := values[frameSpatial[1]]
	if !okX || !okY {
		return model.Point2D{}, ErrIncompatibleCoordinateSystems
	}
	return model.Point2D{X: x, Y: y}, nil
}
