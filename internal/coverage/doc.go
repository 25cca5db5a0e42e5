// Package coverage implements the spatio-temporal coverage engine: given a
// catalogue of raster descriptors and a decoder, it answers f(x, y, t) →
// values against a bounded two-slot cache of decoded frames.
//
// Layering: timeindex owns the sorted descriptor order (component A),
// slotcache owns the two-slot replacement policy (component B), and this
// package owns the seek state machine, evaluator, slice builder and snap
// (components C-F) on top of them. Engine serializes its evaluate, slice,
// snap, listener and interpolation-toggle operations behind a single mutex;
// Abort and the read-only accessors do not take it. See doc comments on
// Engine for the concurrency contract.
package coverage
