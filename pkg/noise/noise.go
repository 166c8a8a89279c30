/*
Package noise provides the deterministic numeric generators injected into a grammar.

The engine only needs a 2D sample in [-1, 1]. Three implementations are offered:

  - White: uniform hash noise, the default for weighted rule selection.
  - Simplex: coherent OpenSimplex noise for organic variation in handlers.
  - Table: a precomputed lookup grid, bakeable from any Source or loaded from JSON.
*/
package noise

// Source is a deterministic 2D noise generator.
// Sample must return the same value for the same inputs and stay in [-1, 1].
type Source interface {
	Sample(x, y float64) float64
}

// SourceFunc adapts a function to Source.
type SourceFunc func(x, y float64) float64

// Sample calls f(x, y).
func (f SourceFunc) Sample(x, y float64) float64 {
	return f(x, y)
}

// Unit remaps a sample from [-1, 1] into [0, 1).
func Unit(n float64) float64 {
	u := (n + 1) / 2
	if u < 0 {
		return 0
	}
	if u >= 1 {
		return 0.9999999999999999
	}
	return u
}

func clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
