package coverage

import (
	"math"
	"time"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
)

// Snap quantizes instant to the center time of the catalogue frame nearest
// it (ties toward the later frame, timeless frames never considered) and,
// if p is non-nil, quantizes *p to the center of that frame's nearest grid
// cell. A nil p leaves the point untouched; an empty catalogue (or one
// holding only timeless frames) leaves both untouched.
func (e *Engine) Snap(p *model.Point2D, instant *time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if instant == nil {
		return nil
	}
	idx, ct, ok := e.index.NearestReal(*instant)
	if !ok {
		return nil
	}
	*instant = ct

	if p == nil {
		return nil
	}
	d := e.index.Descriptor(idx)
	if !d.CoordinateSystem().Equal(e.coordinateSystem) {
		return ErrIncompatibleCoordinateSystems
	}
	gg := d.GridGeometry()
	col, row := gg.WorldToGrid(*p)
	col = math.Round(gg.ClampCol(col))
	row = math.Round(gg.ClampRow(row))
	*p = gg.GridToWorld(col, row)
	return nil
}
