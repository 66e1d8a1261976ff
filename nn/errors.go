package nn

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction is returned when layer sizes cannot describe a network.
	ErrConstruction = errors.New("invalid layer sizes")
	// ErrInvalidInputShape is returned when an input vector does not match the input width.
	ErrInvalidInputShape = errors.New("invalid input shape")
	// ErrDimensionMismatch is returned when target vectors or paired sequences disagree in length.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidArgument is returned for out-of-range scalar arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ShapeError reports a vector or sequence whose length disagrees with what
// the network expects at that point.
type ShapeError struct {
	Op   string
	Want int
	Got  int
	Err  error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: expected length %d, got %d", e.Op, e.Err, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}
