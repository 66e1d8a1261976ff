package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Layer is one fully-connected stage of a Network.
//
// Row i of the weight matrix holds the incoming weights of neuron i from every
// neuron of the previous layer. The activation vector caches the output of the
// most recent forward pass and is overwritten by the next one.
type Layer struct {
	weights     *mat.Dense
	biases      *mat.VecDense
	activations *mat.VecDense
}

func newLayer(size, inputSize int, initializer Initializer) *Layer {
	data := make([]float64, size*inputSize)
	for i := range data {
		data[i] = initializer.Rand()
	}
	return &Layer{
		weights:     mat.NewDense(size, inputSize, data),
		biases:      mat.NewVecDense(size, nil),
		activations: mat.NewVecDense(size, nil),
	}
}

// Size returns the number of neurons in the layer.
func (l *Layer) Size() int {
	r, _ := l.weights.Dims()
	return r
}

// InputSize returns the width of the vector the layer consumes.
func (l *Layer) InputSize() int {
	_, c := l.weights.Dims()
	return c
}

// Weights returns a copy of the weight matrix.
func (l *Layer) Weights() *mat.Dense {
	return mat.DenseCopyOf(l.weights)
}

// Biases returns a copy of the bias vector.
func (l *Layer) Biases() []float64 {
	return append([]float64(nil), l.biases.RawVector().Data...)
}

// Activations returns a copy of the cached output of the last forward pass.
func (l *Layer) Activations() []float64 {
	return append([]float64(nil), l.activations.RawVector().Data...)
}

// SetWeights overwrites the weight matrix with row-major data.
func (l *Layer) SetWeights(data []float64) error {
	r, c := l.weights.Dims()
	if len(data) != r*c {
		return &ShapeError{Op: "set weights", Want: r * c, Got: len(data), Err: ErrDimensionMismatch}
	}
	l.weights.Copy(mat.NewDense(r, c, data))
	return nil
}

// SetBiases overwrites the bias vector.
func (l *Layer) SetBiases(data []float64) error {
	if len(data) != l.Size() {
		return &ShapeError{Op: "set biases", Want: l.Size(), Got: len(data), Err: ErrDimensionMismatch}
	}
	copy(l.biases.RawVector().Data, data)
	return nil
}

// forward computes relu(W·prev + b) into the activation cache.
func (l *Layer) forward(prev mat.Vector) {
	l.activations.MulVec(l.weights, prev)
	l.activations.AddVec(l.activations, l.biases)
	reluInPlace(l.activations.RawVector().Data)
}

// update applies W -= lr·delta⊗prev and b -= lr·delta.
func (l *Layer) update(delta, prev mat.Vector, learningRate float64) {
	l.weights.RankOne(l.weights, -learningRate, delta, prev)
	l.biases.AddScaledVec(l.biases, -learningRate, delta)
}
