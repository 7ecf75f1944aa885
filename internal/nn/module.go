// Package nn implements the layers that feed the minGRU core.
//
// This package provides:
//   - Module interface: Forward over a single tensor
//   - Linear: fully connected gate/candidate projection
//   - Conv2D: same-padded convolutional projection for feature maps
//   - Identity: pass-through residual alignment
//   - MinGRU: multi-layer stack with residual alignment and dropout
//
// Linear and Conv2D implement mingru.Projection.
package nn

import "github.com/born-ml/mingru/internal/tensor"

// Module is the base interface for all layers in this package.
//
// Forward computes the output for the given input and reports shape
// problems as errors. Modules never mutate their input.
type Module[T tensor.Float] interface {
	Forward(input *tensor.Tensor[T]) (*tensor.Tensor[T], error)
}

// Identity returns its input unchanged.
//
// It is the residual alignment used when a layer keeps its width.
type Identity[T tensor.Float] struct{}

// Forward returns input.
func (Identity[T]) Forward(input *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return input, nil
}
