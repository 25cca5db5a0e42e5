// Package model holds the value types and collaborator interfaces shared by
// the time index, slot cache and engine packages. It imports none of its
// sibling packages, which is what lets timeindex and slotcache avoid an
// import cycle back into the engine package.
package model

import (
	"context"
	"time"
)

// Timeless is the sentinel center time carried by a descriptor whose
// time_range is absent on both ends. It sorts before every real instant and
// never participates in interpolation or gap detection.
var Timeless = time.Time{}

// IsTimeless reports whether t is the Timeless sentinel.
func IsTimeless(t time.Time) bool { return t.Equal(Timeless) }

// TimeRange is a half-open interval [Start, End) in the engine's time axis.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls in [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// DeriveCenterTime implements the descriptor's center_time rule: the
// midpoint when both ends are present, the present end when only one is,
// and Timeless when neither is.
func DeriveCenterTime(tr *TimeRange) time.Time {
	switch {
	case tr == nil:
		return Timeless
	case !tr.Start.IsZero() && !tr.End.IsZero():
		return tr.Start.Add(tr.End.Sub(tr.Start) / 2)
	case !tr.Start.IsZero():
		return tr.Start
	case !tr.End.IsZero():
		return tr.End
	default:
		return Timeless
	}
}

// Point2D is a coordinate pair in whatever spatial axes its caller's
// coordinate system names; the axis order is given by CS.SpatialAxes.
type Point2D struct {
	X float64
	Y float64
}

// Rectangle is an axis-aligned bounding box in geographic degrees
// (longitude, latitude).
type Rectangle struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Union returns the smallest rectangle enclosing r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	return Rectangle{
		MinLon: min(r.MinLon, o.MinLon),
		MinLat: min(r.MinLat, o.MinLat),
		MaxLon: max(r.MaxLon, o.MaxLon),
		MaxLat: max(r.MaxLat, o.MaxLat),
	}
}

// Envelope is the native-coordinate-system bounding box of a descriptor or
// engine, one [min,max] pair per axis (spatial axes, plus the time axis when
// the descriptor carries one).
type Envelope struct {
	Min []float64
	Max []float64
}

// Union returns the component-wise union of e and o. If the two envelopes
// have different dimensionality the wider one wins and missing components
// are left untouched; callers are expected to keep envelopes consistent
// within one catalogue.
func (e Envelope) Union(o Envelope) Envelope {
	if len(e.Min) == 0 {
		return o
	}
	if len(o.Min) == 0 {
		return e
	}
	wide, narrow := e, o
	if len(o.Min) > len(e.Min) {
		wide, narrow = o, e
	}
	out := Envelope{Min: append([]float64(nil), wide.Min...), Max: append([]float64(nil), wide.Max...)}
	for i := range narrow.Min {
		out.Min[i] = min(out.Min[i], narrow.Min[i])
		out.Max[i] = max(out.Max[i], narrow.Max[i])
	}
	return out
}

// Band describes one sample band carried by every raster in the catalogue.
// All descriptors in a single engine must agree on SampleBands, per
// ErrInconsistentBands.
type Band struct {
	Name        string
	Units       string
	NoData      float64
	Categorical bool
}

// BandsEqual reports whether two band lists name the same bands in the same
// order with the same metadata.
func BandsEqual(a, b []Band) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GridGeometry maps between integer grid cells and world coordinates for one
// raster. Transform is the affine [a,b,c,d,e,f] such that
//
//	worldX = a + b*col + c*row
//	worldY = d + e*col + f*row
//
// and is defined so that integer (col, row) lands on a cell's center, not
// its corner: Snap rounds to the nearest integer cell and reprojects through
// this same transform.
type GridGeometry struct {
	Transform      [6]float64
	MinCol, MinRow int
	MaxCol, MaxRow int // exclusive
}

// GridToWorld maps a (possibly fractional) cell coordinate to world space.
func (g GridGeometry) GridToWorld(col, row float64) Point2D {
	t := g.Transform
	return Point2D{
		X: t[0] + t[1]*col + t[2]*row,
		Y: t[3] + t[4]*col + t[5]*row,
	}
}

// WorldToGrid inverts GridToWorld. The transform's linear part must be
// invertible; grid geometries built by democatalog and any well-formed
// decoder always satisfy this.
func (g GridGeometry) WorldToGrid(p Point2D) (col, row float64) {
	t := g.Transform
	det := t[1]*t[5] - t[2]*t[4]
	dx, dy := p.X-t[0], p.Y-t[3]
	col = (dx*t[5] - dy*t[2]) / det
	row = (dy*t[1] - dx*t[4]) / det
	return col, row
}

// ClampCol clamps a fractional column to the valid cell range [MinCol, MaxCol-1].
func (g GridGeometry) ClampCol(col float64) float64 { return clampf(col, float64(g.MinCol), float64(g.MaxCol-1)) }

// ClampRow clamps a fractional row to the valid cell range [MinRow, MaxRow-1].
func (g GridGeometry) ClampRow(row float64) float64 { return clampf(row, float64(g.MinRow), float64(g.MaxRow-1)) }

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CS is a coordinate system: an ordered list of named axes, at most one of
// which is the time axis.
type CS struct {
	Name string
	Axes []string
}

// TimeAxisIndex returns the index of the "t" axis, if any.
func (c CS) TimeAxisIndex() (int, bool) {
	for i, a := range c.Axes {
		if a == "t" {
			return i, true
		}
	}
	return -1, false
}

// SpatialAxes returns the axis names with the time axis removed, in order.
func (c CS) SpatialAxes() []string {
	out := make([]string, 0, len(c.Axes))
	for _, a := range c.Axes {
		if a != "t" {
			out = append(out, a)
		}
	}
	return out
}

// Equal reports whether two coordinate systems name the same axes in the
// same order. Two coordinate systems with the same axis names in different
// order are compatible for projection purposes (see the coverage engine's
// projectPoint) but not
// Equal.
func (c CS) Equal(o CS) bool {
	if len(c.Axes) != len(o.Axes) {
		return false
	}
	for i := range c.Axes {
		if c.Axes[i] != o.Axes[i] {
			return false
		}
	}
	return true
}

// Descriptor is one entry in a Catalogue: metadata about an available raster
// frame, sufficient to decide whether and how to load it without decoding
// it.
type Descriptor interface {
	ID() string
	TimeRange() (TimeRange, bool)
	CenterTime() time.Time
	Envelope() Envelope
	GeographicArea() Rectangle
	GridGeometry() GridGeometry
	SampleBands() []Band
	CoordinateSystem() CS
}

// Raster is a decoded frame capable of evaluating itself at a point, one
// method per scalar flavor the engine's evaluator supports.
type Raster interface {
	EvaluateI32(p Point2D, dest []int32) ([]int32, error)
	EvaluateF32(p Point2D, dest []float32) ([]float32, error)
	EvaluateF64(p Point2D, dest []float64) ([]float64, error)
	CoordinateSystem() CS
	GridGeometry() GridGeometry
}

// ProgressEvent reports incremental decode progress for one descriptor.
type ProgressEvent struct {
	DescriptorID string
	Message      string
	Fraction     float64
}

// WarningEvent reports a non-fatal decode anomaly.
type WarningEvent struct {
	DescriptorID string
	Message      string
	Err          error
}

// ProgressListener observes decode progress.
type ProgressListener func(ProgressEvent)

// WarningListener observes non-fatal decode anomalies.
type WarningListener func(WarningEvent)

// Decoder materializes descriptors into rasters and implements the two
// raster-to-raster operations the engine needs but does not itself know how
// to perform: nearest-neighbor wrapping (when interpolation is disallowed)
// and linear combination (for GetSlice's interpolated slices).
//
// Materialize must honor ctx cancellation: the engine cancels ctx when
// Engine.Abort is called while a decode for d is in flight, and expects
// Materialize to stop and return ctx.Err() (or a wrapping error) rather
// than run the decode to completion.
type Decoder interface {
	Materialize(ctx context.Context, d Descriptor, listeners []ProgressListener) (Raster, error)
	WrapNearestNeighbor(r Raster) Raster
	LinearCombine(lower, upper Raster, ratio float64) (Raster, error)
}

// Catalogue enumerates the descriptors an Engine indexes.
type Catalogue interface {
	Descriptors() ([]Descriptor, error)
}
