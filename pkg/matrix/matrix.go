// Package matrix defines the immutable square grid of bounded integers that
// pcgrid function nodes produce.
package matrix

import (
	"fmt"
	"math/bits"
)

// CellFunc computes the value of a single cell.
type CellFunc func(x, y int) (int, error)

// Matrix is a size×size grid of integers, each within [min, max].
// A Matrix is never mutated after Generate returns it, so it can be shared
// freely between goroutines and cached without copying.
type Matrix struct {
	size   int
	min    int
	max    int
	values []int // row-major: index y*size + x
}

// Generate builds a Matrix by calling fn once for every cell in row-major
// order (y outer, x inner). Construction is all-or-nothing: the first error
// from fn, or the first value outside [min, max], aborts and no Matrix is
// returned.
func Generate(size, min, max int, fn CellFunc) (*Matrix, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if min > max {
		return nil, fmt.Errorf("%w: [%d..%d]", ErrInvalidRange, min, max)
	}

	values := make([]int, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v, err := fn(x, y)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}
			if v < min || v > max {
				return nil, &RangeError{X: x, Y: y, Value: v, Min: min, Max: max}
			}
			values[y*size+x] = v
		}
	}

	return &Matrix{size: size, min: min, max: max, values: values}, nil
}

// FromValues builds a Matrix from an existing row-major slice. The slice is
// copied.
func FromValues(size, min, max int, values []int) (*Matrix, error) {
	if size > 0 && len(values) != size*size {
		return nil, fmt.Errorf("%w: %d values for a %dx%d grid", ErrInvalidSize, len(values), size, size)
	}
	return Generate(size, min, max, func(x, y int) (int, error) {
		return values[y*size+x], nil
	})
}

// Size returns the grid edge length.
func (m *Matrix) Size() int { return m.size }

// Min returns the lower bound of the declared value range.
func (m *Matrix) Min() int { return m.min }

// Max returns the upper bound of the declared value range.
func (m *Matrix) Max() int { return m.max }

// Len returns the number of cells (size²).
func (m *Matrix) Len() int { return len(m.values) }

// At returns the value at (x, y).
func (m *Matrix) At(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= m.size || y >= m.size {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, m.size, m.size)
	}
	return m.values[y*m.size+x], nil
}

// Values returns a copy of the row-major cell buffer.
func (m *Matrix) Values() []int {
	out := make([]int, len(m.values))
	copy(out, m.values)
	return out
}

// Equal reports whether m and other have the same shape, range and content.
func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.size != other.size || m.min != other.min || m.max != other.max {
		return false
	}
	for i, v := range m.values {
		if other.values[i] != v {
			return false
		}
	}
	return true
}

// Histogram counts cell values into n equal-width buckets spanning
// [min, max]. n <= 0 is treated as 1.
func (m *Matrix) Histogram(n int) []int {
	if n <= 0 {
		n = 1
	}
	counts := make([]int, n)
	// width+1 is the number of distinct values; it wraps to 0 for the full
	// int range, where the bucket is the high word of off*n.
	width := uint64(m.max) - uint64(m.min)
	for _, v := range m.values {
		off := uint64(v) - uint64(m.min)
		hi, lo := bits.Mul64(off, uint64(n))
		b := hi
		if width+1 != 0 {
			b, _ = bits.Div64(hi, lo, width+1)
		}
		counts[b]++
	}
	return counts
}

func (m *Matrix) String() string {
	return fmt.Sprintf("matrix %dx%d [%d..%d]", m.size, m.size, m.min, m.max)
}
