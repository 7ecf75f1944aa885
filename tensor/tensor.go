// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor type used by the minGRU API.
//
// Tensors are dense, row-major and generic over float32 and float64:
//   - Tensor[T]: data with a fixed shape
//   - Shape: dimension sizes, zero allowed for empty axes
//   - DataType: Float32 or Float64
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3})
//	h0, err := tensor.Full(tensor.Shape{1, 1, 8}, float32(0.5))
package tensor

import (
	"github.com/born-ml/mingru/internal/tensor"
)

// Float is the constraint for tensor element types: float32 or float64.
type Float = tensor.Float

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a dense, row-major tensor of T.
//
// Methods Reshape, Narrow, Chunk, Add, Mul and Map return new tensors;
// Reshape shares the underlying data.
type Tensor[T Float] = tensor.Tensor[T]

// New creates a zero-filled tensor.
func New[T Float](shape Shape) (*Tensor[T], error) {
	return tensor.New[T](shape)
}

// FromSlice creates a tensor from a Go slice. The data is copied.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3})
func FromSlice[T Float](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	h0, err := tensor.Full(tensor.Shape{4, 1, 32}, float32(0.5))
func Full[T Float](shape Shape, value T) (*Tensor[T], error) {
	return tensor.Full(shape, value)
}
