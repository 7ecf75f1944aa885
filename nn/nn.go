// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/mingru/internal/nn"
	"github.com/born-ml/mingru/internal/tensor"
)

// Module interface defines the common interface for single-input layers.
type Module[T tensor.Float] = nn.Module[T]

// Identity returns its input unchanged.
type Identity[T tensor.Float] = nn.Identity[T]

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[T tensor.Float] = nn.Linear[T]

// NewLinear creates a new linear layer with Xavier initialization.
//
// rng may be nil to use the global source.
//
// Example:
//
//	proj, err := nn.NewLinear[float32](16, 2*32, true, rand.New(rand.NewSource(1)))
func NewLinear[T tensor.Float](inFeatures, outFeatures int, useBias bool, rng *rand.Rand) (*Linear[T], error) {
	return nn.NewLinear[T](inFeatures, outFeatures, useBias, rng)
}

// NewLinearFrom creates a linear layer from weight [out, in] and optional bias [out].
func NewLinearFrom[T tensor.Float](weight, bias *tensor.Tensor[T]) (*Linear[T], error) {
	return nn.NewLinearFrom(weight, bias)
}

// Conv2D represents a same-padded, stride 1 2D convolutional layer.
type Conv2D[T tensor.Float] = nn.Conv2D[T]

// NewConv2D creates a new convolutional layer with an odd square kernel.
//
// Example:
//
//	conv, err := nn.NewConv2D[float32](3, 2*8, 3, true, nil)  // in=3, out=16, kernel=3x3, padding=1
func NewConv2D[T tensor.Float](inChannels, outChannels, kernelSize int, useBias bool, rng *rand.Rand) (*Conv2D[T], error) {
	return nn.NewConv2D[T](inChannels, outChannels, kernelSize, useBias, rng)
}

// NewConv2DFrom creates a convolutional layer from weight [out, in, k, k] and optional bias [out].
func NewConv2DFrom[T tensor.Float](weight, bias *tensor.Tensor[T]) (*Conv2D[T], error) {
	return nn.NewConv2DFrom(weight, bias)
}

// Stacks

// MinGRUConfig describes a stack of minGRU layers.
type MinGRUConfig = nn.MinGRUConfig

// MinGRU is a multi-layer minGRU.
type MinGRU[T tensor.Float] = nn.MinGRU[T]

// Layer is one layer of a MinGRU stack.
type Layer[T tensor.Float] = nn.Layer[T]

// NewMinGRU builds a stack from cfg.
func NewMinGRU[T tensor.Float](cfg MinGRUConfig) (*MinGRU[T], error) {
	return nn.NewMinGRU[T](cfg)
}

// Initialization

// Xavier returns a tensor drawn from the Glorot uniform distribution.
func Xavier[T tensor.Float](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) (*tensor.Tensor[T], error) {
	return nn.Xavier[T](fanIn, fanOut, shape, rng)
}
