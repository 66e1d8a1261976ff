package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ReLU returns max(0, x).
func ReLU(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// ReLUDerivative is evaluated on a ReLU output, not on its input. The two
// agree because the output is zero exactly when the input is <= 0.
func ReLUDerivative(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return 1
}

func reluInPlace(v []float64) {
	for i, x := range v {
		v[i] = ReLU(x)
	}
}

// Softmax replaces every element v_i with exp(v_i) / sum_j exp(v_j), in place.
// The maximum is subtracted first so large logits do not overflow.
func Softmax(v []float64) {
	if len(v) == 0 {
		return
	}
	maxV := floats.Max(v)
	for i, x := range v {
		v[i] = math.Exp(x - maxV)
	}
	floats.Scale(1/floats.Sum(v), v)
}
