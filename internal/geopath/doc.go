// Package geopath implements component G: a geodetic path tracker driven by
// a mobile Mercator projection recentered on the current position on every
// call. It is not goroutine-safe and is never shared across goroutines,
// matching the engine's own single-writer model.
package geopath
