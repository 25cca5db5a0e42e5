// Package timeindex implements component A: the sorted, immutable index of
// raster descriptors the engine binary-searches on every seek.
//
// Descriptors with a Timeless center time sort before every real entry and
// are only ever reached by explicit index, never by time search; Search
// always reports an insertion point past them.
package timeindex
