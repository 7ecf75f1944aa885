package mingru

import (
	"fmt"

	"github.com/born-ml/mingru/internal/tensor"
)

// Evaluate runs the minGRU over a flat sequence.
//
// Shapes:
//
//	x:      [B, S, Cin]
//	h0:     [B, 1, Chid]
//	result: [B, S, Chid]
//
// p must map Cin channels to 2*Chid channels. All B*S timesteps are
// projected in one call on a [B*S, Cin] view of x.
func Evaluate[T tensor.Float](x, h0 *tensor.Tensor[T], p Projection[T], cfg Config) (*tensor.Tensor[T], error) {
	return evaluate("evaluate", 3, x, h0, p, cfg)
}

// EvaluateSpatial runs the convolutional minGRU over a sequence of feature maps.
//
// Shapes:
//
//	x:      [B, S, Cin, H, W]
//	h0:     [B, 1, Chid, H, W]
//	result: [B, S, Chid, H, W]
//
// p is typically a same-padded convolution from Cin to 2*Chid channels. It
// receives (B, S) flattened into one axis, [B*S, Cin, H, W], and must keep
// H and W. Height and width are independent lanes of the recurrence.
func EvaluateSpatial[T tensor.Float](x, h0 *tensor.Tensor[T], p Projection[T], cfg Config) (*tensor.Tensor[T], error) {
	return evaluate("evaluate spatial", 5, x, h0, p, cfg)
}

func evaluate[T tensor.Float](op string, rank int, x, h0 *tensor.Tensor[T], p Projection[T], cfg Config) (*tensor.Tensor[T], error) {
	xs := x.Shape()
	if len(xs) != rank {
		return nil, &ShapeError{Op: op, Got: xs, Details: fmt.Sprintf("input must be %dD", rank)}
	}
	if xs[1] == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSequenceLength)
	}
	if xs[2] != p.InChannels() {
		return nil, &ShapeError{Op: op, Want: xs.With(2, p.InChannels()), Got: xs, Details: "input channels differ from projection"}
	}
	outChannels := p.OutChannels()
	if outChannels <= 0 || outChannels%2 != 0 {
		return nil, &ShapeError{Op: op, Got: xs, Details: fmt.Sprintf("projection output width %d is not 2*hidden", outChannels)}
	}
	if want := xs.With(1, 1).With(2, outChannels/2); !h0.Shape().Equal(want) {
		return nil, &ShapeError{Op: op, Want: want, Got: h0.Shape(), Details: "hidden state shape"}
	}
	if xs.HasZero() {
		return nil, &ShapeError{Op: op, Got: xs, Details: "empty batch, channel or spatial dimension"}
	}
	if err := checkPositive(h0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Flatten (B, S) so every timestep is projected in one call.
	flatDims := append([]int{xs[0] * xs[1]}, xs[2:]...)
	flat, err := x.Reshape(flatDims...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	projected, err := p.Project(flat)
	if err != nil {
		return nil, fmt.Errorf("%s: projection: %w", op, err)
	}
	if want := flat.Shape().With(1, outChannels); !projected.Shape().Equal(want) {
		return nil, &ShapeError{Op: op, Want: want, Got: projected.Shape(), Details: "projection output"}
	}

	combined, err := projected.Reshape(append([]int{xs[0], xs[1]}, projected.Shape()[1:]...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	halves, err := combined.Chunk(2, 2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return dispatch(halves[0], halves[1], h0, cfg)
}
