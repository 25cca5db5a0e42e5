package democatalog

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
)

// raster is a decoded frame: one row-major float64 grid per band,
// concatenated band-major in the flat file democatalog descriptors point
// at. Evaluation rounds the requested point to its nearest grid cell; it
// does not itself interpolate between cells (only between frames, which is
// the engine's job).
type raster struct {
	cs     model.CS
	grid   model.GridGeometry
	bands  []model.Band
	values [][]float64 // values[band][row*cols+col]
	cols   int
	rows   int
}

// loadRaster reads the flat file at d.dataPath: len(bands) consecutive
// row-major float64 grids of (cols x rows) cells each, little-endian. It
// checks ctx between bands so Engine.Abort can terminate a multi-band
// decode early rather than only before it starts.
func loadRaster(ctx context.Context, d *descriptor) (*raster, error) {
	cols := d.grid.MaxCol - d.grid.MinCol
	rows := d.grid.MaxRow - d.grid.MinRow
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("democatalog: descriptor %q has empty grid", d.id)
	}
	cellsPerBand := cols * rows

	f, err := os.Open(d.dataPath)
	if err != nil {
		return nil, fmt.Errorf("democatalog: failed to open band data %q: %w", d.dataPath, err)
	}
	defer f.Close()

	values := make([][]float64, len(d.bands))
	buf := make([]byte, 8*cellsPerBand)
	for i := range d.bands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("democatalog: failed to read band %d of %q: %w", i, d.dataPath, err)
		}
		band := make([]float64, cellsPerBand)
		for j := range band {
			bits := binary.LittleEndian.Uint64(buf[j*8 : j*8+8])
			band[j] = math.Float64frombits(bits)
		}
		values[i] = band
	}

	return &raster{
		cs:     d.cs,
		grid:   d.grid,
		bands:  d.bands,
		values: values,
		cols:   cols,
		rows:   rows,
	}, nil
}

func (r *raster) CoordinateSystem() model.CS       { return r.cs }
func (r *raster) GridGeometry() model.GridGeometry { return r.grid }

func (r *raster) cellIndex(p model.Point2D) (int, bool) {
	col, row := r.grid.WorldToGrid(p)
	col = r.grid.ClampCol(col)
	row = r.grid.ClampRow(row)
	ci := int(col + 0.5) - r.grid.MinCol
	ri := int(row + 0.5) - r.grid.MinRow
	if ci < 0 || ci >= r.cols || ri < 0 || ri >= r.rows {
		return 0, false
	}
	return ri*r.cols + ci, true
}

func (r *raster) EvaluateF64(p model.Point2D, dest []float64) ([]float64, error) {
	dest = ensureLen(dest, len(r.bands))
	idx, ok := r.cellIndex(p)
	for i, band := range r.values {
		if !ok {
			dest[i] = r.bands[i].NoData
			continue
		}
		dest[i] = band[idx]
	}
	return dest, nil
}

func (r *raster) EvaluateF32(p model.Point2D, dest []float32) ([]float32, error) {
	dest32 := ensureLen32(dest, len(r.bands))
	scratch, err := r.EvaluateF64(p, make([]float64, len(r.bands)))
	if err != nil {
		return nil, err
	}
	for i, v := range scratch {
		dest32[i] = float32(v)
	}
	return dest32, nil
}

func (r *raster) EvaluateI32(p model.Point2D, dest []int32) ([]int32, error) {
	destI := ensureLenI32(dest, len(r.bands))
	scratch, err := r.EvaluateF64(p, make([]float64, len(r.bands)))
	if err != nil {
		return nil, err
	}
	for i, v := range scratch {
		destI[i] = int32(math.Round(v))
	}
	return destI, nil
}

func ensureLen(dest []float64, n int) []float64 {
	if cap(dest) >= n {
		return dest[:n]
	}
	return make([]float64, n)
}

func ensureLen32(dest []float32, n int) []float32 {
	if cap(dest) >= n {
		return dest[:n]
	}
	return make([]float32, n)
}

func ensureLenI32(dest []int32, n int) []int32 {
	if cap(dest) >= n {
		return dest[:n]
	}
	return make([]int32, n)
}
