package democatalog

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
)

// Decoder implements model.Decoder against descriptors produced by
// Catalogue: Materialize reads the flat-file band grid named by the
// descriptor, WrapNearestNeighbor is a no-op (raster already samples its
// nearest cell), and LinearCombine blends two same-shaped rasters band by
// band using gonum/floats.
type Decoder struct{}

// NewDecoder returns a Decoder. It holds no state; every descriptor carries
// everything Materialize needs to find its data file.
func NewDecoder() Decoder { return Decoder{} }

func (Decoder) Materialize(ctx context.Context, d model.Descriptor, listeners []model.ProgressListener) (model.Raster, error) {
	dd, ok := d.(*descriptor)
	if !ok {
		return nil, fmt.Errorf("democatalog: decoder cannot materialize foreign descriptor type %T", d)
	}
	for _, l := range listeners {
		l(model.ProgressEvent{DescriptorID: dd.id, Message: "reading band data", Fraction: 0})
	}
	r, err := loadRaster(ctx, dd)
	if err != nil {
		return nil, err
	}
	for _, l := range listeners {
		l(model.ProgressEvent{DescriptorID: dd.id, Message: "done", Fraction: 1})
	}
	return r, nil
}

// WrapNearestNeighbor returns r unchanged: every raster produced by this
// decoder already evaluates by snapping to its nearest cell, so there is no
// separate interpolating mode to strip away.
func (Decoder) WrapNearestNeighbor(r model.Raster) model.Raster {
	return r
}

// LinearCombine blends lower and upper band-for-band as
// (1-ratio)*lower + ratio*upper, matching spec.md's bracketed-evaluate
// blend rule. Both rasters must share grid shape and band count.
func (Decoder) LinearCombine(lower, upper model.Raster, ratio float64) (model.Raster, error) {
	lr, ok := lower.(*raster)
	if !ok {
		return nil, fmt.Errorf("democatalog: decoder cannot combine foreign raster type %T", lower)
	}
	ur, ok := upper.(*raster)
	if !ok {
		return nil, fmt.Errorf("democatalog: decoder cannot combine foreign raster type %T", upper)
	}
	if lr.cols != ur.cols || lr.rows != ur.rows || len(lr.bands) != len(ur.bands) {
		return nil, fmt.Errorf("democatalog: cannot combine rasters of differing shape")
	}

	values := make([][]float64, len(lr.bands))
	for i := range lr.bands {
		combined := make([]float64, len(lr.values[i]))
		copy(combined, lr.values[i])
		floats.Scale(1-ratio, combined)
		scaledUpper := make([]float64, len(ur.values[i]))
		copy(scaledUpper, ur.values[i])
		floats.Scale(ratio, scaledUpper)
		floats.Add(combined, scaledUpper)
		values[i] = combined
	}

	return &raster{
		cs:     lr.cs,
		grid:   lr.grid,
		bands:  lr.bands,
		values: values,
		cols:   lr.cols,
		rows:   lr.rows,
	}, nil
}
