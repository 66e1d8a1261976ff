package nn

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer supplies initial weight values, one call per weight.
// distuv.Uniform satisfies it.
type Initializer interface {
	Rand() float64
}

// UniformInit returns a generator of independent values in [-1, 1).
func UniformInit(seed uint64) distuv.Uniform {
	return distuv.Uniform{
		Min: -1,
		Max: 1,
		Src: rand.NewSource(seed),
	}
}
