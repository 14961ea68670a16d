package coltype

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func cellsN(n int) []Cell {
	out := make([]Cell, n)
	for i := range out {
		out[i] = String(strconv.Itoa(i))
	}
	return out
}

func TestRandomSampler_SeededIsDeterministic(t *testing.T) {
	s := RandomSampler{Seed: 99}
	cells := cellsN(500)

	a := s.Sample(cells, 10)
	b := s.Sample(cells, 10)
	assert.Len(t, a, 10)
	assert.Equal(t, a, b)
}

func TestRandomSampler_SmallInputReturnedWhole(t *testing.T) {
	cells := cellsN(4)
	assert.Equal(t, cells, RandomSampler{}.Sample(cells, 10))
	assert.Nil(t, RandomSampler{}.Sample(cells, 0))
}

func TestRandomSampler_DrawsFromInput(t *testing.T) {
	cells := cellsN(100)
	seen := make(map[string]bool)
	for _, c := range (RandomSampler{}).Sample(cells, 10) {
		assert.False(t, seen[c.Str], "duplicate %s", c.Str)
		seen[c.Str] = true
		n, err := strconv.Atoi(c.Str)
		assert.NoError(t, err)
		assert.True(t, n >= 0 && n < 100)
	}
}

// headSampler returns the first n cells so fallback tests can pin the sample.
type headSampler struct{}

func (headSampler) Sample(cells []Cell, n int) []Cell {
	if len(cells) <= n {
		return cells
	}
	return cells[:n]
}
