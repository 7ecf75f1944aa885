package parallel

import "fmt"

// Lanes describes independent sequences packed as a row-major
// [Outer, Length, Inner] block. Sequence (o, k) occupies the elements
// o*Length*Inner + t*Inner + k for t in [0, Length).
type Lanes struct {
	Outer  int
	Length int
	Inner  int
}

// Size returns the number of elements covered by the layout.
func (l Lanes) Size() int {
	return l.Outer * l.Length * l.Inner
}

// Scan computes the inclusive prefix of op along the Length axis of every
// lane and returns it in a new slice. data is not modified.
//
// op must be associative. It is applied as op(earlier, later), so it does
// not need to be commutative.
//
// The scan is Hillis-Steele doubling: ceil(log2(Length)) levels, where level
// d combines every element with the one 2^d steps before it. Each level is a
// single data-parallel pass over all lanes and time steps, so the critical
// path over the time axis is logarithmic rather than linear.
func Scan[T any](data []T, lanes Lanes, op func(a, b T) T, cfg Config) ([]T, error) {
	if lanes.Outer <= 0 || lanes.Length <= 0 || lanes.Inner <= 0 {
		return nil, fmt.Errorf("scan: invalid lanes %+v", lanes)
	}
	n := lanes.Size()
	if len(data) != n {
		return nil, fmt.Errorf("scan: lanes %+v need %d elements, got %d", lanes, n, len(data))
	}

	src := make([]T, n)
	copy(src, data)
	if lanes.Length == 1 {
		return src, nil
	}
	dst := make([]T, n)

	for step := 1; step < lanes.Length; step <<= 1 {
		shift := step * lanes.Inner
		ForRange(n, func(start, end int) {
			for i := start; i < end; i++ {
				if (i/lanes.Inner)%lanes.Length >= step {
					dst[i] = op(src[i-shift], src[i])
				} else {
					dst[i] = src[i]
				}
			}
		}, cfg)
		src, dst = dst, src
	}
	return src, nil
}
