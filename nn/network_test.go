package nn

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// seqInit hands out a fixed cycle of weights.
type seqInit struct {
	vals []float64
	next int
}

func (s *seqInit) Rand() float64 {
	v := s.vals[s.next%len(s.vals)]
	s.next++
	return v
}

func mustNet(t *testing.T, sizes []int, initializer Initializer) *Network {
	t.Helper()
	net, err := NewWithInit(sizes, initializer)
	require.NoError(t, err)
	net.OnEpoch(func(int, float64) {})
	return net
}

func setLayer(t *testing.T, l *Layer, weights, biases []float64) {
	t.Helper()
	require.NoError(t, l.SetWeights(weights))
	require.NoError(t, l.SetBiases(biases))
}

func TestNewShapes(t *testing.T) {
	sizes := []int{784, 128, 32, 10}
	net := mustNet(t, sizes, UniformInit(1))

	require.Equal(t, len(sizes)-1, net.NumLayers())
	assert.Equal(t, 784, net.InputWidth())
	assert.Equal(t, 10, net.OutputWidth())
	for i := 0; i < net.NumLayers(); i++ {
		l := net.Layer(i)
		r, c := l.Weights().Dims()
		assert.Equal(t, sizes[i+1], r, "layer %d rows", i)
		assert.Equal(t, sizes[i], c, "layer %d cols", i)
		assert.Equal(t, sizes[i+1], l.Size())
		assert.Equal(t, sizes[i], l.InputSize())
		assert.Equal(t, make([]float64, sizes[i+1]), l.Biases())
		assert.Equal(t, make([]float64, sizes[i+1]), l.Activations())
	}

	net, err := New([]int{3, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, net.NumLayers())
}

func TestNewRejectsDegenerateSizes(t *testing.T) {
	for _, sizes := range [][]int{nil, {}, {5}, {0}, {3, 0, 2}, {-1, 2}, {4, -2}} {
		net, err := New(sizes)
		assert.ErrorIs(t, err, ErrConstruction, "%v", sizes)
		assert.Nil(t, net)
	}

	_, err := NewWithInit([]int{2, 2}, nil)
	assert.ErrorIs(t, err, ErrConstruction)
}

func TestUniformInit(t *testing.T) {
	a := mustNet(t, []int{50, 40}, UniformInit(7))
	b := mustNet(t, []int{50, 40}, UniformInit(7))
	c := mustNet(t, []int{50, 40}, UniformInit(8))

	w := a.Layer(0).Weights().RawMatrix().Data
	for _, v := range w {
		require.True(t, v >= -1 && v < 1, "weight %v outside [-1, 1)", v)
	}
	assert.Greater(t, floats.Max(w)-floats.Min(w), 1.0, "weights should spread over the interval")

	assert.True(t, mat.Equal(a.Layer(0).Weights(), b.Layer(0).Weights()), "same seed")
	assert.False(t, mat.Equal(a.Layer(0).Weights(), c.Layer(0).Weights()), "different seed")
}

func TestLayerSetters(t *testing.T) {
	net := mustNet(t, []int{3, 2}, UniformInit(1))
	l := net.Layer(0)

	var shapeErr *ShapeError
	err := l.SetWeights([]float64{1, 2, 3})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 6, shapeErr.Want)
	assert.Equal(t, 3, shapeErr.Got)
	assert.ErrorIs(t, l.SetBiases([]float64{1}), ErrDimensionMismatch)

	setLayer(t, l, []float64{1, 2, 3, 4, 5, 6}, []float64{0.5, -0.5})
	assert.Equal(t, 6.0, l.Weights().At(1, 2))
	assert.Equal(t, 2.0, l.Weights().At(0, 1))
	assert.Equal(t, []float64{0.5, -0.5}, l.Biases())

	// Accessors hand out copies.
	l.Weights().Set(0, 0, 100)
	l.Biases()[0] = 100
	assert.Equal(t, 1.0, l.Weights().At(0, 0))
	assert.Equal(t, 0.5, l.Biases()[0])
}

func TestForwardOutputSumsToOne(t *testing.T) {
	net := mustNet(t, []int{5, 8, 8, 4}, UniformInit(3))
	for _, input := range [][]float64{
		{0.1, 0.9, 0.3, 0, 1},
		{0, 0, 0, 0, 0},
		{1, 1, 1, 1, 1},
	} {
		require.NoError(t, net.Forward(input))
		out := net.Output()
		require.Len(t, out, 4)
		assert.InDelta(t, 1.0, floats.Sum(out), 1e-9)
		for _, p := range out {
			assert.True(t, p >= 0 && p <= 1, "probability %v", p)
		}
	}
}

func TestForwardDeterministic(t *testing.T) {
	net := mustNet(t, []int{4, 6, 3}, UniformInit(11))
	input := []float64{0.2, 0.4, 0.6, 0.8}
	before := net.Layer(0).Weights()

	require.NoError(t, net.Forward(input))
	first := net.Output()
	hidden := net.Layer(0).Activations()
	require.NoError(t, net.Forward(input))

	assert.Equal(t, first, net.Output())
	assert.Equal(t, hidden, net.Layer(0).Activations())
	assert.True(t, mat.Equal(before, net.Layer(0).Weights()), "forward must not touch weights")
}

func TestForwardInvalidShape(t *testing.T) {
	net := mustNet(t, []int{2, 2}, UniformInit(1))

	err := net.Forward([]float64{1})
	require.ErrorIs(t, err, ErrInvalidInputShape)
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 2, shapeErr.Want)
	assert.Equal(t, 1, shapeErr.Got)

	assert.ErrorIs(t, net.Forward([]float64{1, 2, 3}), ErrInvalidInputShape)
}

func TestIdentityNetwork(t *testing.T) {
	net := mustNet(t, []int{2, 2, 2}, UniformInit(1))
	identity := []float64{1, 0, 0, 1}
	for i := 0; i < net.NumLayers(); i++ {
		setLayer(t, net.Layer(i), identity, []float64{0, 0})
	}

	require.NoError(t, net.Forward([]float64{1, 0}))
	out := net.Output()
	assert.InDelta(t, 1.0, floats.Sum(out), 1e-12)
	assert.InDelta(t, math.E/(math.E+1), out[0], 1e-12)

	before := net.Layer(1).Weights()
	require.NoError(t, net.Backward([]float64{1, 0}, 0.1))
	after := net.Layer(1).Weights()

	assert.False(t, mat.Equal(before, after), "backward should change a weight")
	assert.InDelta(t, 1-0.1*(out[0]-1), after.At(0, 0), 1e-12)
	assert.InDelta(t, -0.1*out[1], after.At(1, 0), 1e-12)
	// The second hidden activation is zero, so its column is untouched.
	assert.Equal(t, 0.0, after.At(0, 1))
	assert.Equal(t, 1.0, after.At(1, 1))
}

func TestBackwardSingleLayerUpdate(t *testing.T) {
	net := mustNet(t, []int{3, 2}, UniformInit(1))
	w := []float64{0.2, 0.4, 0.1, 0.3, 0.1, 0.5}
	b := []float64{0.05, -0.02}
	setLayer(t, net.Layer(0), w, b)

	x := []float64{1, 0.5, 2}
	target := []float64{0, 1}
	lr := 0.3
	require.NoError(t, net.Forward(x))
	out := net.Output()
	require.NoError(t, net.Backward(target, lr))

	got := net.Layer(0).Weights()
	gotB := net.Layer(0).Biases()
	for i := 0; i < 2; i++ {
		delta := out[i] - target[i]
		for j := 0; j < 3; j++ {
			assert.InDelta(t, w[i*3+j]-lr*delta*x[j], got.At(i, j), 1e-12, "w[%d][%d]", i, j)
		}
		assert.InDelta(t, b[i]-lr*delta, gotB[i], 1e-12, "b[%d]", i)
	}
}

func TestBackwardHiddenLayer(t *testing.T) {
	net := mustNet(t, []int{2, 2, 2}, UniformInit(1))
	w1 := []float64{0.5, 0.2, -0.3, -0.8} // second hidden neuron stays dead
	setLayer(t, net.Layer(0), w1, []float64{0, 0})
	setLayer(t, net.Layer(1), []float64{0.6, -0.4, 0.1, 0.9}, []float64{0, 0})

	x := []float64{1, 0.5}
	target := []float64{0, 1}
	lr := 0.5
	require.NoError(t, net.Forward(x))
	out := net.Output()
	hidden := net.Layer(0).Activations()
	w2 := net.Layer(1).Weights()
	require.Equal(t, 0.0, hidden[1])

	// The hidden error signal travels back through the output weights after
	// their own update.
	deltaHidden := make([]float64, 2)
	for k := range deltaHidden {
		for i := range out {
			delta := out[i] - target[i]
			updated := w2.At(i, k) - lr*delta*hidden[k]
			deltaHidden[k] += updated * delta
		}
		deltaHidden[k] *= ReLUDerivative(hidden[k])
	}

	require.NoError(t, net.Backward(target, lr))
	got := net.Layer(0).Weights()
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, w1[k*2+j]-lr*deltaHidden[k]*x[j], got.At(k, j), 1e-12, "w1[%d][%d]", k, j)
		}
	}
	assert.InDelta(t, 0.4553846323333592, got.At(0, 0), 1e-12)
	assert.InDelta(t, 0.1776923161666796, got.At(0, 1), 1e-12)
	assert.Equal(t, w1[2], got.At(1, 0), "dead neuron gets no update")
	assert.Equal(t, w1[3], got.At(1, 1), "dead neuron gets no update")
}

func TestBackwardPropagatesThroughUpdatedWeights(t *testing.T) {
	net := mustNet(t, []int{2, 2, 2}, UniformInit(1))
	setLayer(t, net.Layer(0), []float64{0.5, 0.2, 0.3, 0.8}, []float64{0, 0})
	setLayer(t, net.Layer(1), []float64{0.6, -0.4, 0.1, 0.9}, []float64{0, 0})

	require.NoError(t, net.Forward([]float64{1, 0.5}))
	require.NoError(t, net.Backward([]float64{0, 1}, 0.5))

	// Going through the pre-update output weights would give 0.411985200520.
	assert.InDelta(t, 0.449168904172, net.Layer(0).Weights().At(0, 0), 1e-9)
}

func TestBackwardDescends(t *testing.T) {
	net := mustNet(t, []int{3, 2}, UniformInit(1))
	setLayer(t, net.Layer(0), []float64{0.2, 0.4, 0.1, 0.3, 0.1, 0.5}, []float64{0, 0})
	x := []float64{1, 0.5, 2}
	target := []float64{1, 0}

	require.NoError(t, net.Forward(x))
	out := net.Output()
	before := MeanSquaredError(out, target)

	// The logits are positive here, so the output ReLU is the identity and the
	// applied logit step is a positive multiple of -(out - target). Check it
	// points downhill against a numerical gradient of the loss.
	logits := mat.NewVecDense(2, nil)
	logits.MulVec(net.Layer(0).Weights(), mat.NewVecDense(3, x))
	z := logits.RawVector().Data
	require.True(t, z[0] > 0 && z[1] > 0)
	loss := func(z []float64) float64 {
		p := append([]float64(nil), z...)
		Softmax(p)
		return MeanSquaredError(p, target)
	}
	grad := fd.Gradient(nil, loss, z, &fd.Settings{Formula: fd.Central})
	delta := make([]float64, 2)
	floats.SubTo(delta, out, target)
	assert.Greater(t, floats.Dot(grad, delta), 0.0)

	require.NoError(t, net.Backward(target, 0.05))
	require.NoError(t, net.Forward(x))
	after := MeanSquaredError(net.Output(), target)
	assert.Less(t, after, before)
}

func TestBackwardBeforeForward(t *testing.T) {
	net := mustNet(t, []int{2, 2}, UniformInit(5))
	before := net.Layer(0).Weights()

	require.NoError(t, net.Backward([]float64{1, 0}, 0.5))

	assert.True(t, mat.Equal(before, net.Layer(0).Weights()), "zero input leaves weights alone")
	assert.Equal(t, []float64{0.5, 0}, net.Layer(0).Biases())
}

func TestBackwardDimensionMismatch(t *testing.T) {
	net := mustNet(t, []int{2, 3}, UniformInit(1))
	require.NoError(t, net.Forward([]float64{1, 1}))

	err := net.Backward([]float64{1, 0}, 0.1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 3, shapeErr.Want)
	assert.Equal(t, 2, shapeErr.Got)
}
