package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/mingru/internal/backend/cpu"
	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// As a minGRU projection, out_features is 2*hidden: the first half of the
// output is the gate, the second half the candidate.
//
// Example:
//
//	layer, _ := nn.NewLinear[float32](16, 2*32, true, rand.New(rand.NewSource(1)))
//	output, err := layer.Forward(input)  // [N, 16] -> [N, 64]
type Linear[T tensor.Float] struct {
	inFeatures  int
	outFeatures int
	weight      *tensor.Tensor[T] // [out_features, in_features]
	bias        *tensor.Tensor[T] // [out_features] or nil
	cfg         parallel.Config
}

// NewLinear creates a new Linear layer.
//
// Weights are initialized using Xavier/Glorot uniform distribution.
// Biases are initialized to zeros.
func NewLinear[T tensor.Float](inFeatures, outFeatures int, useBias bool, rng *rand.Rand) (*Linear[T], error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("linear: invalid features in=%d, out=%d", inFeatures, outFeatures)
	}

	weight, err := Xavier[T](inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, rng)
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}

	var bias *tensor.Tensor[T]
	if useBias {
		if bias, err = tensor.New[T](tensor.Shape{outFeatures}); err != nil {
			return nil, fmt.Errorf("linear: %w", err)
		}
	}

	return NewLinearFrom(weight, bias)
}

// NewLinearFrom creates a Linear layer from caller-supplied parameters.
//
// weight must be [out_features, in_features]; bias may be nil or
// [out_features]. The tensors are used as-is, not copied.
func NewLinearFrom[T tensor.Float](weight, bias *tensor.Tensor[T]) (*Linear[T], error) {
	ws := weight.Shape()
	if len(ws) != 2 || ws.HasZero() {
		return nil, fmt.Errorf("linear: weight must be [out, in], got %v", ws)
	}
	if bias != nil && !bias.Shape().Equal(tensor.Shape{ws[0]}) {
		return nil, fmt.Errorf("linear: bias shape mismatch: expected %v, got %v", tensor.Shape{ws[0]}, bias.Shape())
	}

	return &Linear[T]{
		inFeatures:  ws[1],
		outFeatures: ws[0],
		weight:      weight,
		bias:        bias,
		cfg:         parallel.DefaultConfig(),
	}, nil
}

// Forward computes the output of the linear layer.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear[T]) Forward(input *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		return nil, fmt.Errorf("linear: expected 2D input [batch, features], got shape %v", inputShape)
	}
	if inputShape[1] != l.inFeatures {
		return nil, fmt.Errorf("linear: expected input with %d features, got %d", l.inFeatures, inputShape[1])
	}

	output, err := cpu.MatMulTransposed(input, l.weight, l.cfg)
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	if l.bias == nil {
		return output, nil
	}
	return cpu.AddBias(output, l.bias, 1)
}

// Project implements mingru.Projection.
func (l *Linear[T]) Project(x *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return l.Forward(x)
}

// InChannels implements mingru.Projection.
func (l *Linear[T]) InChannels() int {
	return l.inFeatures
}

// OutChannels implements mingru.Projection.
func (l *Linear[T]) OutChannels() int {
	return l.outFeatures
}

// SetParallel replaces the kernel parallelism config.
func (l *Linear[T]) SetParallel(cfg parallel.Config) {
	l.cfg = cfg
}

// Weight returns the weight tensor.
func (l *Linear[T]) Weight() *tensor.Tensor[T] {
	return l.weight
}

// Bias returns the bias tensor, or nil.
func (l *Linear[T]) Bias() *tensor.Tensor[T] {
	return l.bias
}
