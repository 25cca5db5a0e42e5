// Package democatalog is a reference Catalogue/Decoder pair for the
// coverage engine: descriptor metadata lives in small JSON files, sample
// values live in an adjacent flat file of row-major float64s per
// descriptor, holding every band's grid back to back. It exists to drive
// cmd/coverage-probe against something more realistic than a hand-built
// in-memory fixture, not to be a production raster format.
package democatalog
