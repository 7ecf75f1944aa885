// Package cpu implements the pure Go compute kernels behind the nn projections.
package cpu

import (
	"fmt"

	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
)

// MatMulTransposed computes x @ w.T.
//
// Shapes: x [M, K], w [N, K] -> [M, N]. Rows of the result are computed in
// parallel. Accumulation is in float64 regardless of T.
func MatMulTransposed[T tensor.Float](x, w *tensor.Tensor[T], cfg parallel.Config) (*tensor.Tensor[T], error) {
	xShape, wShape := x.Shape(), w.Shape()
	if len(xShape) != 2 || len(wShape) != 2 {
		return nil, fmt.Errorf("matmul: only 2D tensors supported, got %dD and %dD", len(xShape), len(wShape))
	}

	m, k := xShape[0], xShape[1]
	n, kAlt := wShape[0], wShape[1]
	if k != kAlt {
		return nil, fmt.Errorf("matmul: shape mismatch [%d,%d] @ [%d,%d].T", m, k, n, kAlt)
	}

	out, err := tensor.New[T](tensor.Shape{m, n})
	if err != nil {
		return nil, fmt.Errorf("matmul: failed to create result tensor: %w", err)
	}

	a, b, c := x.Data(), w.Data(), out.Data()
	parallel.For(m, func(i int) {
		row := a[i*k : (i+1)*k]
		for j := 0; j < n; j++ {
			col := b[j*k : (j+1)*k]
			var sum float64
			for p, v := range row {
				sum += float64(v) * float64(col[p])
			}
			c[i*n+j] = T(sum)
		}
	}, cfg)

	return out, nil
}

// AddBias adds bias[c] to every element of channel c.
//
// dim is the channel axis of x; bias must have x.Dim(dim) elements.
// Returns a new tensor.
func AddBias[T tensor.Float](x, bias *tensor.Tensor[T], dim int) (*tensor.Tensor[T], error) {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		return nil, fmt.Errorf("bias: dimension %d out of range for shape %v", dim, shape)
	}
	if bias.NumElements() != shape[dim] {
		return nil, fmt.Errorf("bias: expected %d elements, got %d", shape[dim], bias.NumElements())
	}

	out := x.Clone()
	data, b := out.Data(), bias.Data()
	inner := shape.Inner(dim)
	channels := shape[dim]
	for i := range data {
		data[i] += b[(i/inner)%channels]
	}
	return out, nil
}
