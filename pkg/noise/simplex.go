package noise

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Simplex is coherent gradient noise. Nearby coordinates give nearby values.
type Simplex struct {
	gen opensimplex.Noise
}

// NewSimplex creates a simplex noise source for the given seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{gen: opensimplex.New(seed)}
}

// Sample evaluates 2D noise.
func (s *Simplex) Sample(x, y float64) float64 {
	return clamp(s.gen.Eval2(x, y))
}

// Sample3 evaluates 3D noise, used for position-dependent jitter.
func (s *Simplex) Sample3(x, y, z float64) float64 {
	return clamp(s.gen.Eval3(x, y, z))
}

// FBM sums octaves of 2D noise with halving amplitude and doubling frequency.
// The result is normalised back into [-1, 1].
func FBM(src Source, x, y float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}
	var sum, norm float64
	amp := 0.5
	for i := 0; i < octaves; i++ {
		sum += amp * src.Sample(x, y)
		norm += amp
		amp *= 0.5
		x *= 2
		y *= 2
	}
	return clamp(sum / norm)
}
