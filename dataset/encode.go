package dataset

import (
	"fmt"
	"math"
)

// NormalizeBytes scales pixel bytes into [0, 1].
func NormalizeBytes(b []byte) []float64 {
	out := make([]float64, len(b))
	for i, v := range b {
		out[i] = float64(v) / math.MaxUint8
	}
	return out
}

// Denormalize maps values in [0, 1] back to pixel bytes, clamping anything
// outside that range.
func Denormalize(v []float64) []byte {
	out := make([]byte, len(v))
	for i, x := range v {
		switch {
		case x <= 0:
			out[i] = 0
		case x >= 1:
			out[i] = math.MaxUint8
		default:
			out[i] = byte(math.Round(x * math.MaxUint8))
		}
	}
	return out
}

// OneHot encodes a digit label as a NumClasses-long vector with a single 1.
func OneHot(label byte) ([]float64, error) {
	if int(label) >= NumClasses {
		return nil, fmt.Errorf("%w: %d", ErrBadLabel, label)
	}
	out := make([]float64, NumClasses)
	out[label] = 1
	return out, nil
}
