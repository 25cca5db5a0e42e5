package slotcache

import (
	"runtime"
	"time"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
)

// Mode describes what occupies a Cache.
type Mode int

const (
	// Empty means neither slot is populated.
	Empty Mode = iota
	// Pinned means a single frame occupies both slots (an exact time hit, a
	// boundary frame, or the nearest frame when interpolation is off).
	Pinned
	// Bracketed means distinct lower and upper frames bracket the sought instant.
	Bracketed
)

// Slot is one loaded frame and the descriptor metadata it was loaded from.
type Slot struct {
	Raster     model.Raster
	Descriptor model.Descriptor
	CenterTime time.Time
	TimeRange  model.TimeRange
	HasRange   bool
}

// EagerGC, when true, runs a GC pass immediately before a decode. It is a
// nod to the historical memory pressure this cache design was built to
// survive; implementations in a language with its own GC rarely need it, so
// it defaults off.
var EagerGC = false

// Cache is the engine's two-slot raster cache. Not goroutine-safe; callers
// serialize access (the engine does so with its own mutex).
type Cache struct {
	mode                 Mode
	lower, upper         *Slot
	lowerTime, upperTime time.Time
}

// Mode reports what currently occupies the cache.
func (c *Cache) Mode() Mode { return c.mode }

// Lower returns the lower (or sole, when Pinned) slot, or nil if Empty.
func (c *Cache) Lower() *Slot { return c.lower }

// Upper returns the upper slot (the same slot as Lower when Pinned), or nil
// if Empty.
func (c *Cache) Upper() *Slot { return c.upper }

// LowerTime returns the lower bound of cache coverage.
func (c *Cache) LowerTime() time.Time { return c.lowerTime }

// UpperTime returns the upper bound of cache coverage.
func (c *Cache) UpperTime() time.Time { return c.upperTime }

// Covers reports whether instant falls within the cache's current coverage,
// i.e. whether a Seek for it would be a cache hit.
func (c *Cache) Covers(instant time.Time) bool {
	if c.mode == Empty {
		return false
	}
	return !instant.Before(c.lowerTime) && !instant.After(c.upperTime)
}

// Invalidate clears the cache back to Empty.
func (c *Cache) Invalidate() {
	c.mode = Empty
	c.lower, c.upper = nil, nil
	c.lowerTime, c.upperTime = time.Time{}, time.Time{}
}

// DecodeFunc materializes one descriptor into a raster; the engine supplies
// a closure binding its Decoder and listener list.
type DecodeFunc func(d model.Descriptor) (model.Raster, error)

// LoadSingle decodes descriptor and, on success, replaces the cache with a
// Pinned slot. On failure the cache is left untouched.
func (c *Cache) LoadSingle(d model.Descriptor, decode DecodeFunc) error {
	maybeGC()
	r, err := decode(d)
	if err != nil {
		return err
	}
	ct := d.CenterTime()
	tr, hasRange := d.TimeRange()
	slot := &Slot{Raster: r, Descriptor: d, CenterTime: ct, TimeRange: tr, HasRange: hasRange}
	c.mode = Pinned
	c.lower, c.upper = slot, slot
	c.lowerTime, c.upperTime = ct, ct
	return nil
}

// LoadPair decodes both descriptors before mutating any cache state; if
// either decode fails the cache is left exactly as it was.
func (c *Cache) LoadPair(lowerD, upperD model.Descriptor, decode DecodeFunc) error {
	maybeGC()
	lowerR, err := decode(lowerD)
	if err != nil {
		return err
	}
	upperR, err := decode(upperD)
	if err != nil {
		return err
	}
	lowerCT := lowerD.CenterTime()
	upperCT := upperD.CenterTime()
	lowerTR, lowerHasRange := lowerD.TimeRange()
	upperTR, upperHasRange := upperD.TimeRange()
	c.mode = Bracketed
	c.lower = &Slot{Raster: lowerR, Descriptor: lowerD, CenterTime: lowerCT, TimeRange: lowerTR, HasRange: lowerHasRange}
	c.upper = &Slot{Raster: upperR, Descriptor: upperD, CenterTime: upperCT, TimeRange: upperTR, HasRange: upperHasRange}
	c.lowerTime, c.upperTime = lowerCT, upperCT
	return nil
}

func maybeGC() {
	if EagerGC {
		runtime.GC()
	}
}
