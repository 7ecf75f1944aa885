package mingru

import "github.com/born-ml/mingru/internal/tensor"

// Projection produces the combined gate and candidate logits for a batch of
// timesteps, gate half first along the channel axis.
//
// Flat projections receive [N, InChannels] and return [N, OutChannels].
// Spatial projections receive [N, InChannels, H, W] and return
// [N, OutChannels, H, W]. OutChannels must be twice the hidden width.
// Project must be deterministic and must not modify or retain x.
type Projection[T tensor.Float] interface {
	InChannels() int
	OutChannels() int
	Project(x *tensor.Tensor[T]) (*tensor.Tensor[T], error)
}

// ProjectionFunc adapts a plain function to the Projection interface.
type ProjectionFunc[T tensor.Float] struct {
	In, Out int
	Fn      func(x *tensor.Tensor[T]) (*tensor.Tensor[T], error)
}

// InChannels returns In.
func (p ProjectionFunc[T]) InChannels() int { return p.In }

// OutChannels returns Out.
func (p ProjectionFunc[T]) OutChannels() int { return p.Out }

// Project calls Fn.
func (p ProjectionFunc[T]) Project(x *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return p.Fn(x)
}
