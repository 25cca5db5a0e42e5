package geopath

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// hashStride is how many vertices apart the hash's strided sample walks.
const hashStride = 7

// Hash incorporates the vertex count, the heading and the bits of every
// hashStride-th vertex, so it does not hash every vertex: two paths of equal
// length and heading that differ only at unsampled vertices hash equal.
func (p *Path) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	write(uint64(p.n))
	write(math.Float64bits(p.heading))
	for i := 0; i < p.n; i += hashStride {
		write(math.Float64bits(p.lon[i]))
		write(math.Float64bits(p.lat[i]))
	}
	return h.Sum64()
}

// MarshalBinary trims the vertex buffer to its valid length and serializes
// (heading, lon[0:n], lat[0:n]). The format carries no explicit length
// field: UnmarshalBinary reconstructs n from the buffer's size.
func (p *Path) MarshalBinary() ([]byte, error) {
	out := make([]byte, 8+16*p.n)
	binary.LittleEndian.PutUint64(out[0:8], math.Float64bits(p.heading))
	off := 8
	for i := 0; i < p.n; i++ {
		binary.LittleEndian.PutUint64(out[off:off+8], math.Float64bits(p.lon[i]))
		off += 8
	}
	for i := 0; i < p.n; i++ {
		binary.LittleEndian.PutUint64(out[off:off+8], math.Float64bits(p.lat[i]))
		off += 8
	}
	return out, nil
}

// UnmarshalBinary is MarshalBinary's inverse. validLength is reconstructed
// from the buffer's length, not stored.
func (p *Path) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("geopath: path buffer too short: %d bytes", len(data))
	}
	rest := len(data) - 8
	if rest%16 != 0 {
		return fmt.Errorf("geopath: path buffer length %d not aligned to a vertex pair", len(data))
	}
	n := rest / 16
	heading := math.Float64frombits(binary.LittleEndian.Uint64(data[0:8]))

	lon := make([]float64, n)
	lat := make([]float64, n)
	off := 8
	for i := 0; i < n; i++ {
		lon[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
		off += 8
	}
	for i := 0; i < n; i++ {
		lat[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
		off += 8
	}

	p.heading = heading
	p.lon, p.lat = lon, lat
	p.n = n
	p.hasBounds = false
	for i := 0; i < n; i++ {
		p.expandBounds(lon[i], lat[i])
	}
	return nil
}
