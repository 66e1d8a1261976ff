package nn

import (
	"fmt"
	"time"

	"digitnet/utils"

	"gonum.org/v1/gonum/mat"
)

// Network is a dense multilayer perceptron with ReLU layers and a softmax
// output.
//
// A Network is not safe for concurrent use. Forward and Backward read and
// write the same per-layer activation caches, so passes must not interleave;
// use one Network per goroutine.
type Network struct {
	layers     []*Layer
	inputWidth int
	// input caches the last forward input; Backward reads it as the
	// previous activation of the first layer.
	input *mat.VecDense

	onEpoch EpochFunc
	stats   *utils.TimingStats
}

// New builds a network from layer sizes, where sizes[0] is the input width and
// every later entry is the neuron count of a parameterized layer. Weights are
// drawn uniformly from [-1, 1) with a clock-seeded generator.
func New(sizes []int) (*Network, error) {
	return NewWithInit(sizes, UniformInit(uint64(time.Now().UnixNano())))
}

// NewWithInit is New with an explicit weight initializer. Weights are drawn
// layer by layer in row-major order; biases and activations start at zero.
func NewWithInit(sizes []int, initializer Initializer) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("%w: need an input width and at least one layer, got %v", ErrConstruction, sizes)
	}
	for i, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("%w: size %d at index %d is not positive", ErrConstruction, s, i)
		}
	}
	if initializer == nil {
		return nil, fmt.Errorf("%w: nil initializer", ErrConstruction)
	}

	net := &Network{
		layers:     make([]*Layer, 0, len(sizes)-1),
		inputWidth: sizes[0],
		input:      mat.NewVecDense(sizes[0], nil),
	}
	for i := 1; i < len(sizes); i++ {
		net.layers = append(net.layers, newLayer(sizes[i], sizes[i-1], initializer))
	}
	return net, nil
}

// NumLayers returns the number of parameterized layers.
func (net *Network) NumLayers() int {
	return len(net.layers)
}

// Layer returns the i-th parameterized layer.
func (net *Network) Layer(i int) *Layer {
	return net.layers[i]
}

// InputWidth returns the length Forward expects of its input.
func (net *Network) InputWidth() int {
	return net.inputWidth
}

// OutputWidth returns the number of classes, the length of Output and of the
// targets passed to Backward.
func (net *Network) OutputWidth() int {
	return net.last().Size()
}

// Output returns a copy of the last layer's activations: one probability per
// class after a forward pass.
func (net *Network) Output() []float64 {
	return net.last().Activations()
}

func (net *Network) last() *Layer {
	return net.layers[len(net.layers)-1]
}

// Forward runs inference on input, overwriting every layer's activation cache.
// Each layer computes relu(W·prev + b); the last layer's result then goes
// through softmax. Read the result with Output.
func (net *Network) Forward(input []float64) error {
	if len(input) != net.inputWidth {
		return &ShapeError{Op: "forward", Want: net.inputWidth, Got: len(input), Err: ErrInvalidInputShape}
	}
	copy(net.input.RawVector().Data, input)

	var prev mat.Vector = net.input
	for _, l := range net.layers {
		l.forward(prev)
		prev = l.activations
	}
	Softmax(net.last().activations.RawVector().Data)
	return nil
}

// previousActivations returns the vector that fed layer i on the last forward pass.
func (net *Network) previousActivations(i int) *mat.VecDense {
	if i == 0 {
		return net.input
	}
	return net.layers[i-1].activations
}

func (net *Network) checkTargets(op string, targets []float64) error {
	if want := net.OutputWidth(); len(targets) != want {
		return &ShapeError{Op: op, Want: want, Got: len(targets), Err: ErrDimensionMismatch}
	}
	return nil
}
