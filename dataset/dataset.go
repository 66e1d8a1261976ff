// Package dataset produces the (input, target) sequences the network trains
// on: MNIST IDX files decoded into normalized pixel vectors and one-hot class
// vectors, or synthetic samples of the same shape.
package dataset

import "errors"

const (
	ImageWidth  = 28
	ImageHeight = 28
	ImageSize   = ImageWidth * ImageHeight

	// NumClasses is the number of digit classes.
	NumClasses = 10

	ImageMagic = 2051
	LabelMagic = 2049

	// ImageOffset and LabelOffset are the header lengths of image and label files.
	ImageOffset = 16
	LabelOffset = 8
)

var (
	ErrBadMagic      = errors.New("bad magic number")
	ErrBadLabel      = errors.New("label out of range")
	ErrCountMismatch = errors.New("image and label counts differ")
	ErrBadDimensions = errors.New("unexpected image dimensions")
)

// Sample pairs a normalized input vector with its target vector.
type Sample struct {
	Input  []float64
	Target []float64
}

// Samples is an ordered, restartable sequence of samples.
type Samples []Sample

// Inputs returns the input vectors in order. The vectors are shared, not copied.
func (s Samples) Inputs() [][]float64 {
	out := make([][]float64, len(s))
	for i := range s {
		out[i] = s[i].Input
	}
	return out
}

// Targets returns the target vectors in order. The vectors are shared, not copied.
func (s Samples) Targets() [][]float64 {
	out := make([][]float64, len(s))
	for i := range s {
		out[i] = s[i].Target
	}
	return out
}

// ImageBounds returns the byte range [start, end) of image index within an
// image file of 28x28 images.
func ImageBounds(index int) (start, end int) {
	start = ImageOffset + index*ImageSize
	return start, start + ImageSize
}
