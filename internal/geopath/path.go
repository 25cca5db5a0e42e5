package geopath

import "math"

const growthCap = 512

// Vertex is one path position in geographic degrees.
type Vertex struct {
	LonDeg float64
	LatDeg float64
}

// RectNM is an axis-aligned rectangle in nautical miles, relative to some
// implicit origin (the path's current position, for relative_to_geographic).
type RectNM struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// RectDeg is an axis-aligned rectangle in geographic degrees.
type RectDeg struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// IntRect is an outward-rounded integer-degree rectangle.
type IntRect struct {
	MinLon, MinLat int
	MaxLon, MaxLat int
}

// Path is a dynamically-sized geodetic path: an ordered vertex list in
// radians, an arithmetic-radians heading, and axis-aligned radian bounds.
// Not goroutine-safe.
type Path struct {
	lon, lat []float64 // backing storage, len == cap
	n        int       // valid length
	heading  float64   // arithmetic radians: 0 = east, increasing counterclockwise

	hasBounds             bool
	minLonRad, minLatRad  float64
	maxLonRad, maxLatRad  float64
}

// New returns an empty path with heading zero.
func New() *Path { return &Path{} }

// NewAt returns a path with one initial vertex and heading zero.
func NewAt(lonDeg, latDeg float64) *Path {
	p := &Path{}
	p.Append(lonDeg, latDeg)
	return p
}

func (p *Path) ensureCapacity(extra int) {
	need := p.n + extra
	if need <= len(p.lon) {
		return
	}
	newCap := len(p.lon)
	if newCap == 0 {
		newCap = 8
	}
	for newCap < need {
		grow := newCap
		if grow > growthCap {
			grow = growthCap
		}
		newCap += grow
	}
	lon := make([]float64, newCap)
	lat := make([]float64, newCap)
	copy(lon, p.lon[:p.n])
	copy(lat, p.lat[:p.n])
	p.lon, p.lat = lon, lat
}

func (p *Path) expandBounds(lonRad, latRad float64) {
	if !p.hasBounds {
		p.minLonRad, p.maxLonRad = lonRad, lonRad
		p.minLatRad, p.maxLatRad = latRad, latRad
		p.hasBounds = true
		return
	}
	p.minLonRad = math.Min(p.minLonRad, lonRad)
	p.maxLonRad = math.Max(p.maxLonRad, lonRad)
	p.minLatRad = math.Min(p.minLatRad, latRad)
	p.maxLatRad = math.Max(p.maxLatRad, latRad)
}

func (p *Path) appendRad(lonRad, latRad float64) {
	p.ensureCapacity(1)
	p.lon[p.n] = lonRad
	p.lat[p.n] = latRad
	p.n++
	p.expandBounds(lonRad, latRad)
}

// Append pushes a vertex and expands bounds; heading is unchanged.
func (p *Path) Append(lonDeg, latDeg float64) {
	p.appendRad(degToRad(lonDeg), degToRad(latDeg))
}

// PositionCount returns the number of vertices.
func (p *Path) PositionCount() int { return p.n }

// Position returns vertex i in degrees.
func (p *Path) Position(i int) (lonDeg, latDeg float64) {
	return radToDeg(p.lon[i]), radToDeg(p.lat[i])
}

// CurrentPosition returns the last vertex in degrees. Panics if the path is empty.
func (p *Path) CurrentPosition() (lonDeg, latDeg float64) { return p.Position(p.n - 1) }

// HeadingDeg converts the internal arithmetic-radians heading to geographic
// degrees clockwise from true north, normalized to [0, 360).
func (p *Path) HeadingDeg() float64 {
	deg := 90 - radToDeg(p.heading)
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Rotate subtracts deltaDeg (converted to radians) from the internal
// heading; a positive delta turns clockwise.
func (p *Path) Rotate(deltaDeg float64) {
	p.heading -= degToRad(deltaDeg)
}

// MoveForward advances by distanceNM nautical miles along the current
// heading, using a mobile Mercator projection centered on the current
// position. Heading is unchanged; a negative distance reverses. A no-op on
// an empty path.
func (p *Path) MoveForward(distanceNM float64) {
	if p.n == 0 {
		return
	}
	lonRad, latRad := p.lon[p.n-1], p.lat[p.n-1]
	m := newMobileMercator(lonRad, latRad)
	dx := distanceNM * math.Cos(p.heading)
	dy := distanceNM * math.Sin(p.heading)
	newLonRad, newLatRad := m.inverse(dx, dy)
	p.appendRad(newLonRad, newLatRad)
}

// MoveToward advances toward (targetLonDeg, targetLatDeg) by up to
// distanceNM nautical miles. It sets the heading toward the target (unless
// that bearing is NaN; a target at the current position yields bearing 0),
// appends the new position, and reports whether the target was reached
// exactly. A no-op (returns false) on an empty path.
func (p *Path) MoveToward(targetLonDeg, targetLatDeg, distanceNM float64) bool {
	if p.n == 0 {
		return false
	}
	lonRad, latRad := p.lon[p.n-1], p.lat[p.n-1]
	m := newMobileMercator(lonRad, latRad)
	targetLonRad, targetLatRad := degToRad(targetLonDeg), degToRad(targetLatDeg)
	dx, dy := m.forward(targetLonRad, targetLatRad)

	if bearing := math.Atan2(dy, dx); !math.IsNaN(bearing) {
		p.heading = bearing
	}

	dist := math.Hypot(dx, dy)
	ratio := distanceNM / dist
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) || ratio >= 1 {
		p.appendRad(targetLonRad, targetLatRad)
		return true
	}
	sx, sy := dx*ratio, dy*ratio
	newLonRad, newLatRad := m.inverse(sx, sy)
	p.appendRad(newLonRad, newLatRad)
	return false
}

// BoundsDeg returns the path's axis-aligned bounds in degrees. Zero value if empty.
func (p *Path) BoundsDeg() RectDeg {
	if !p.hasBounds {
		return RectDeg{}
	}
	return RectDeg{
		MinLon: radToDeg(p.minLonRad), MinLat: radToDeg(p.minLatRad),
		MaxLon: radToDeg(p.maxLonRad), MaxLat: radToDeg(p.maxLatRad),
	}
}

// BoundsInteger returns the path's bounds rounded outward to whole degrees.
func (p *Path) BoundsInteger() IntRect {
	b := p.BoundsDeg()
	return IntRect{
		MinLon: int(math.Floor(b.MinLon)), MinLat: int(math.Floor(b.MinLat)),
		MaxLon: int(math.Ceil(b.MaxLon)), MaxLat: int(math.Ceil(b.MaxLat)),
	}
}

// Iterate returns every vertex in degrees, in order. The returned slice is a
// snapshot; calling Iterate again after further mutation yields a fresh one.
func (p *Path) Iterate() []Vertex {
	out := make([]Vertex, p.n)
	for i := 0; i < p.n; i++ {
		out[i] = Vertex{LonDeg: radToDeg(p.lon[i]), LatDeg: radToDeg(p.lat[i])}
	}
	return out
}

// RelativeToGeographic transforms rect's four corners, expressed in
// nautical miles relative to the current position, through the mobile
// Mercator projection and returns the enclosing geographic rectangle.
// Panics if the path is empty.
func (p *Path) RelativeToGeographic(rect RectNM) RectDeg {
	lonRad, latRad := p.lon[p.n-1], p.lat[p.n-1]
	m := newMobileMercator(lonRad, latRad)
	corners := [4][2]float64{
		{rect.MinX, rect.MinY}, {rect.MinX, rect.MaxY},
		{rect.MaxX, rect.MinY}, {rect.MaxX, rect.MaxY},
	}
	var out RectDeg
	for i, c := range corners {
		lr, tr := m.inverse(c[0], c[1])
		lonDeg, latDeg := radToDeg(lr), radToDeg(tr)
		if i == 0 {
			out = RectDeg{MinLon: lonDeg, MaxLon: lonDeg, MinLat: latDeg, MaxLat: latDeg}
			continue
		}
		out.MinLon = math.Min(out.MinLon, lonDeg)
		out.MaxLon = math.Max(out.MaxLon, lonDeg)
		out.MinLat = math.Min(out.MinLat, latDeg)
		out.MaxLat = math.Max(out.MaxLat, latDeg)
	}
	return out
}

// Equal reports whether two paths have bit-identical headings and vertex
// sequences.
func (p *Path) Equal(o *Path) bool {
	if p.heading != o.heading || p.n != o.n {
		return false
	}
	for i := 0; i < p.n; i++ {
		if p.lon[i] != o.lon[i] || p.lat[i] != o.lat[i] {
			return false
		}
	}
	return true
}
