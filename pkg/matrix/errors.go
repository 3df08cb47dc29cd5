package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned when a grid is requested with size <= 0.
	ErrInvalidSize = errors.New("matrix: size must be > 0")

	// ErrInvalidRange is returned when the declared range has min > max.
	ErrInvalidRange = errors.New("matrix: min must not exceed max")

	// ErrRangeViolation is matched by every *RangeError.
	ErrRangeViolation = errors.New("matrix: value outside declared range")

	// ErrOutOfBounds is returned by At for coordinates outside the grid.
	ErrOutOfBounds = errors.New("matrix: coordinate out of bounds")
)

// RangeError reports a generated cell value outside [Min, Max].
type RangeError struct {
	X, Y     int
	Value    int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("matrix: cell (%d,%d) = %d outside [%d..%d]", e.X, e.Y, e.Value, e.Min, e.Max)
}

// Is lets errors.Is(err, ErrRangeViolation) match.
func (e *RangeError) Is(target error) bool {
	return target == ErrRangeViolation
}
