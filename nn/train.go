package nn

import (
	"fmt"
	"time"

	"digitnet/utils"
)

// EpochFunc observes a finished epoch: its 0-based index and the mean loss
// over all samples of that epoch.
type EpochFunc func(epoch int, meanLoss float64)

// OnEpoch replaces the per-epoch progress report. By default the loss is
// printed to utils.Output when utils.Verbose is set.
func (net *Network) OnEpoch(fn EpochFunc) {
	net.onEpoch = fn
}

// SetTimingStats makes Train accumulate forward, backward and loss durations
// into stats. Pass nil to stop.
func (net *Network) SetTimingStats(stats *utils.TimingStats) {
	net.stats = stats
}

func printEpoch(epoch int, meanLoss float64) {
	if !utils.Verbose {
		return
	}
	fmt.Fprintf(utils.Output, "Epoch %d | Loss: %.6f\n", epoch, meanLoss)
}

// Train runs exactly epochs passes over the samples in the given order. For
// each pair it runs Forward, adds the mean squared error of the output to the
// epoch total, then runs Backward. It returns the mean loss of every epoch.
//
// Every sample is shape-checked before the first update, so a malformed pair
// leaves the parameters untouched. There is no early stopping. A diverging run
// shows up as NaN losses, not as an error.
func (net *Network) Train(inputs, expected [][]float64, epochs int, learningRate float64) ([]float64, error) {
	if len(inputs) != len(expected) {
		return nil, &ShapeError{Op: "train", Want: len(inputs), Got: len(expected), Err: ErrDimensionMismatch}
	}
	if epochs < 0 {
		return nil, fmt.Errorf("%w: negative epoch count %d", ErrInvalidArgument, epochs)
	}
	for i := range inputs {
		if len(inputs[i]) != net.inputWidth {
			err := &ShapeError{Op: "train", Want: net.inputWidth, Got: len(inputs[i]), Err: ErrInvalidInputShape}
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if err := net.checkTargets("train", expected[i]); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}

	report := net.onEpoch
	if report == nil {
		report = printEpoch
	}

	losses := make([]float64, 0, epochs)
	for epoch := 0; epoch < epochs; epoch++ {
		total := 0.0
		for i := range inputs {
			loss, err := net.trainOne(inputs[i], expected[i], learningRate)
			if err != nil {
				return losses, fmt.Errorf("epoch %d, sample %d: %w", epoch, i, err)
			}
			total += loss
		}

		mean := 0.0
		if len(inputs) > 0 {
			mean = total / float64(len(inputs))
		}
		losses = append(losses, mean)
		report(epoch, mean)
	}
	return losses, nil
}

func (net *Network) trainOne(input, target []float64, learningRate float64) (float64, error) {
	start := time.Now()
	if err := net.Forward(input); err != nil {
		return 0, err
	}
	if net.stats != nil {
		net.stats.ForwardPassTime += time.Since(start)
	}

	start = time.Now()
	loss := MeanSquaredError(net.last().activations.RawVector().Data, target)
	if net.stats != nil {
		net.stats.LossComputationTime += time.Since(start)
	}

	start = time.Now()
	if err := net.Backward(target, learningRate); err != nil {
		return 0, err
	}
	if net.stats != nil {
		net.stats.BackwardPassTime += time.Since(start)
	}
	return loss, nil
}
