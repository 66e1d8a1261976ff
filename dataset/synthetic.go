package dataset

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Synthetic draws n samples with uniform [0, 1) inputs and a random one-hot
// target over classes.
func Synthetic(inputDim, classes, n int, src rand.Source) Samples {
	pixel := distuv.Uniform{Min: 0, Max: 1, Src: src}
	rnd := rand.New(src)

	samples := make(Samples, n)
	for i := range samples {
		input := make([]float64, inputDim)
		for j := range input {
			input[j] = pixel.Rand()
		}
		target := make([]float64, classes)
		target[rnd.Intn(classes)] = 1
		samples[i] = Sample{Input: input, Target: target}
	}
	return samples
}
