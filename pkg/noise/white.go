package noise

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// White is uniform, uncorrelated hash noise.
// Every distinct (x, y) pair maps to an independent value.
type White struct {
	seed uint64
}

// NewWhite creates a white noise source for the given seed.
func NewWhite(seed int64) *White {
	return &White{seed: uint64(seed)}
}

// Sample hashes the seed and coordinates into a value in [-1, 1).
func (w *White) Sample(x, y float64) float64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], w.seed)
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(x))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(y))
	h := xxhash.Sum64(buf[:])
	// 53 high bits give a uniform float in [0, 1).
	u := float64(h>>11) / (1 << 53)
	return u*2 - 1
}
