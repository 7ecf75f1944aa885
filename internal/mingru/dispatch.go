package mingru

import (
	"fmt"
	"math"

	"github.com/born-ml/mingru/internal/tensor"
)

// EvaluateGated runs the recurrence on precomputed gate and candidate logits.
//
// gate and cand are [B, S, C, ...] with any number of trailing parallel axes;
// h0 is [B, 1, C, ...]. Returns the hidden states h_1..h_S as [B, S, C, ...].
// A single timestep runs Step, longer sequences run the log-space scan; both
// paths give the same values within floating point tolerance.
func EvaluateGated[T tensor.Float](gate, cand, h0 *tensor.Tensor[T], cfg Config) (*tensor.Tensor[T], error) {
	if err := checkGated("evaluate", gate, cand, h0); err != nil {
		return nil, err
	}
	if err := checkPositive(h0); err != nil {
		return nil, err
	}
	return dispatch(gate, cand, h0, cfg)
}

func dispatch[T tensor.Float](gate, cand, h0 *tensor.Tensor[T], cfg Config) (*tensor.Tensor[T], error) {
	steps := gate.Dim(1)
	if steps == 1 {
		return step(gate, cand, h0, cfg.Parallel), nil
	}

	h, err := trajectory(gate, cand, h0, cfg.Parallel)
	if err != nil {
		return nil, err
	}
	return h.Narrow(1, 1, steps)
}

// checkGated validates gate/cand/h0 shapes before any computation.
func checkGated[T tensor.Float](op string, gate, cand, h0 *tensor.Tensor[T]) error {
	shape := gate.Shape()
	if len(shape) < 3 {
		return &ShapeError{Op: op, Got: shape, Details: "gate must be at least [B, S, C]"}
	}
	if !cand.Shape().Equal(shape) {
		return &ShapeError{Op: op, Want: shape, Got: cand.Shape(), Details: "candidate shape differs from gate"}
	}
	if shape[1] == 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidSequenceLength)
	}
	if want := shape.With(1, 1); !h0.Shape().Equal(want) {
		return &ShapeError{Op: op, Want: want, Got: h0.Shape(), Details: "hidden state shape"}
	}
	if shape.HasZero() {
		return &ShapeError{Op: op, Got: shape, Details: "empty batch or channel dimension"}
	}
	return nil
}

// checkPositive rejects hidden states with elements that are <= 0, NaN or +Inf.
func checkPositive[T tensor.Float](h *tensor.Tensor[T]) error {
	for i, v := range h.Data() {
		if !(v > 0) || math.IsInf(float64(v), 1) {
			return fmt.Errorf("%w: element %d is %v", ErrNonPositiveHiddenState, i, v)
		}
	}
	return nil
}
