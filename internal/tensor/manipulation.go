package tensor

import "fmt"

// Reshape returns a tensor with the same data and a new shape.
//
// At most one dimension may be -1; its size is inferred. The result shares
// the backing slice with t (view, no copy).
//
// Example:
//
//	x, _ := tensor.New[float32](Shape{2, 3, 4})
//	y, _ := x.Reshape(6, 4)  // [6, 4]
//	z, _ := x.Reshape(2, -1) // [2, 12]
func (t *Tensor[T]) Reshape(dims ...int) (*Tensor[T], error) {
	shape := Shape(dims).Clone()
	infer := -1
	known := 1
	for i, d := range shape {
		if d == -1 {
			if infer >= 0 {
				return nil, fmt.Errorf("reshape: more than one inferred dimension in %v", dims)
			}
			infer = i
			continue
		}
		known *= d
	}
	if infer >= 0 {
		if known == 0 || len(t.data)%known != 0 {
			return nil, fmt.Errorf("reshape: cannot infer dimension for %v from %d elements", dims, len(t.data))
		}
		shape[infer] = len(t.data) / known
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}
	if shape.NumElements() != len(t.data) {
		return nil, fmt.Errorf("reshape: cannot reshape %v (%d elements) to %v", t.shape, len(t.data), shape)
	}
	return &Tensor[T]{
		data:   t.data,
		shape:  shape,
		stride: shape.ComputeStrides(),
	}, nil
}

// Chunk splits the tensor into n equal parts along dim.
//
// The dimension size must be divisible by n. Parts are copies.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	x, _ := tensor.New[float32](Shape{2, 3, 6})
//	parts, _ := x.Chunk(2, -1) // 2 tensors of shape [2, 3, 3]
func (t *Tensor[T]) Chunk(n, dim int) ([]*Tensor[T], error) {
	dim, err := t.shape.normalizeDim(dim)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	if n <= 0 || t.shape[dim]%n != 0 {
		return nil, fmt.Errorf("chunk: dimension %d of size %d is not divisible into %d parts", dim, t.shape[dim], n)
	}
	size := t.shape[dim] / n
	parts := make([]*Tensor[T], n)
	for i := range parts {
		part, err := t.Narrow(dim, i*size, size)
		if err != nil {
			return nil, fmt.Errorf("chunk: %w", err)
		}
		parts[i] = part
	}
	return parts, nil
}

// Narrow returns a copy of the slice [start, start+length) along dim.
//
// Example:
//
//	x, _ := tensor.New[float32](Shape{2, 5, 3})
//	last, _ := x.Narrow(1, 4, 1) // [2, 1, 3]
func (t *Tensor[T]) Narrow(dim, start, length int) (*Tensor[T], error) {
	dim, err := t.shape.normalizeDim(dim)
	if err != nil {
		return nil, fmt.Errorf("narrow: %w", err)
	}
	if start < 0 || length < 0 || start+length > t.shape[dim] {
		return nil, fmt.Errorf("narrow: range [%d, %d) out of bounds for dimension %d (size %d)",
			start, start+length, dim, t.shape[dim])
	}

	outer := t.shape.Outer(dim)
	inner := t.shape.Inner(dim)
	src := t.shape[dim] * inner
	dst := length * inner

	out, err := New[T](t.shape.With(dim, length))
	if err != nil {
		return nil, err
	}
	for o := 0; o < outer; o++ {
		copy(out.data[o*dst:(o+1)*dst], t.data[o*src+start*inner:o*src+(start+length)*inner])
	}
	return out, nil
}

// Add returns t + other elementwise. Shapes must be equal.
func (t *Tensor[T]) Add(other *Tensor[T]) (*Tensor[T], error) {
	return t.zip(other, "add", func(a, b T) T { return a + b })
}

// Mul returns t * other elementwise. Shapes must be equal.
func (t *Tensor[T]) Mul(other *Tensor[T]) (*Tensor[T], error) {
	return t.zip(other, "mul", func(a, b T) T { return a * b })
}

// Map returns a new tensor with f applied to every element.
func (t *Tensor[T]) Map(f func(T) T) *Tensor[T] {
	out := t.Clone()
	for i, v := range out.data {
		out.data[i] = f(v)
	}
	return out
}

func (t *Tensor[T]) zip(other *Tensor[T], op string, f func(a, b T) T) (*Tensor[T], error) {
	if !t.shape.Equal(other.shape) {
		return nil, fmt.Errorf("%s: shape mismatch %v vs %v", op, t.shape, other.shape)
	}
	out := t.Clone()
	for i, v := range other.data {
		out.data[i] = f(out.data[i], v)
	}
	return out, nil
}
