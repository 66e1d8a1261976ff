package nn

import "gonum.org/v1/gonum/mat"

// Backward propagates the error of the last forward pass against targets and
// updates every layer's weights and biases in place by gradient descent.
//
// The output error signal is output - targets. Neither the softmax Jacobian
// nor the output ReLU derivative is applied to it. For each layer, from last
// to first, the weight gradient is the outer product of the layer's error
// signal with the activations that fed it (the cached input for the first
// layer). After the layer is updated, the previous layer's error signal is
// propagated back through the updated weights.
func (net *Network) Backward(targets []float64, learningRate float64) error {
	if err := net.checkTargets("backward", targets); err != nil {
		return err
	}

	delta := mat.NewVecDense(len(targets), nil)
	delta.SubVec(net.last().activations, mat.NewVecDense(len(targets), targets))

	for i := len(net.layers) - 1; i >= 0; i-- {
		l := net.layers[i]
		prev := net.previousActivations(i)

		l.update(delta, prev, learningRate)

		var deltaPrev *mat.VecDense
		if i > 0 {
			deltaPrev = mat.NewVecDense(prev.Len(), nil)
			deltaPrev.MulVec(l.weights.T(), delta)
			d := deltaPrev.RawVector().Data
			for k, a := range prev.RawVector().Data {
				d[k] *= ReLUDerivative(a)
			}
		}
		delta = deltaPrev
	}
	return nil
}
