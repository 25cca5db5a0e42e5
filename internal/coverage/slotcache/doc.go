// Package slotcache implements component B: the engine's bounded two-slot
// raster cache. A Cache holds either nothing, a single pinned frame, or a
// lower/upper bracket for interpolation. Replacement is
// all-or-nothing: a failed decode never leaves the cache in a mixed state.
package slotcache
