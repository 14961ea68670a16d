package coltype

import "math/rand/v2"

// Sampler picks at most n cells from a column for the permissive date check.
type Sampler interface {
	Sample(cells []Cell, n int) []Cell
}

// RandomSampler draws a uniform sample using reservoir sampling.
//
// A zero Seed draws a fresh seed per call. A non-zero Seed makes every
// call with the same input return the same sample. When the input has n
// cells or fewer it is returned whole.
type RandomSampler struct {
	Seed uint64
}

// Sample implements Sampler.
func (s RandomSampler) Sample(cells []Cell, n int) []Cell {
	if n <= 0 {
		return nil
	}
	if len(cells) <= n {
		return cells
	}

	seed := s.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	out := make([]Cell, n)
	copy(out, cells[:n])
	for i := n; i < len(cells); i++ {
		if j := rng.IntN(i + 1); j < n {
			out[j] = cells[i]
		}
	}
	return out
}
