package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Predict runs a forward pass and returns the index of the most probable class.
func (net *Network) Predict(input []float64) (int, error) {
	if err := net.Forward(input); err != nil {
		return 0, err
	}
	return floats.MaxIdx(net.last().activations.RawVector().Data), nil
}

// Accuracy returns the percentage of samples whose predicted class matches the
// largest entry of the expected vector.
func (net *Network) Accuracy(inputs, expected [][]float64) (float64, error) {
	if len(inputs) != len(expected) {
		return 0, &ShapeError{Op: "accuracy", Want: len(inputs), Got: len(expected), Err: ErrDimensionMismatch}
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	var correct float64
	for i, input := range inputs {
		if err := net.checkTargets("accuracy", expected[i]); err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		prediction, err := net.Predict(input)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		if prediction == floats.MaxIdx(expected[i]) {
			correct++
		}
	}
	return 100 * (correct / float64(len(inputs))), nil
}
