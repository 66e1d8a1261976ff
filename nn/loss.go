package nn

import "gonum.org/v1/gonum/floats"

// MeanSquaredError returns the mean of the squared differences between output
// and target. Both slices must have the same length.
func MeanSquaredError(output, target []float64) float64 {
	if len(output) == 0 {
		return 0
	}
	d := floats.Distance(output, target, 2)
	return d * d / float64(len(output))
}
