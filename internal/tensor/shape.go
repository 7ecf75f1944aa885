package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions >= 0).
// Zero-sized dimensions are allowed so empty sequences can be represented.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Outer returns the product of the dimensions before dim.
func (s Shape) Outer(dim int) int {
	return Shape(s[:dim]).NumElements()
}

// Inner returns the product of the dimensions after dim.
func (s Shape) Inner(dim int) int {
	return Shape(s[dim+1:]).NumElements()
}

// With returns a copy of the shape with dimension dim replaced by size.
func (s Shape) With(dim, size int) Shape {
	out := s.Clone()
	out[dim] = size
	return out
}

// HasZero reports whether any dimension is zero.
func (s Shape) HasZero() bool {
	for _, dim := range s {
		if dim == 0 {
			return true
		}
	}
	return false
}

// normalizeDim resolves negative dimension indices (-1 = last).
func (s Shape) normalizeDim(dim int) (int, error) {
	if dim < 0 {
		dim += len(s)
	}
	if dim < 0 || dim >= len(s) {
		return 0, fmt.Errorf("dimension %d out of range for shape %v", dim, s)
	}
	return dim, nil
}
