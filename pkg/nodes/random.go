package nodes

import (
	"fmt"
	"math"

	"github.com/chazu/pcgrid/pkg/function"
	"github.com/chazu/pcgrid/pkg/hash"
)

// KindRandomMatrix identifies the hash-driven random grid generator.
const KindRandomMatrix = "random-matrix"

// Default shape of a random-matrix built with DefaultRandomMatrix.
const (
	DefaultSize = 256
	DefaultMin  = 0
	DefaultMax  = 255
)

// RandomMatrix fills a grid with spatial hash values. It has no upstream
// inputs; its slots are seed, min and max, all ints. seed is used as the
// 32-bit hash seed and must fit in one. The min and max slots
// default to the declared output range and may narrow it, but a value
// outside the declared range is reported as a range violation.
type RandomMatrix struct {
	*function.MatrixFunction
}

// NewRandomMatrix creates a size×size random grid over [min, max].
func NewRandomMatrix(size, seed, min, max int) *RandomMatrix {
	r := &RandomMatrix{}
	r.MatrixFunction = function.NewMatrixFunction(KindRandomMatrix,
		[]function.ParameterDefinition{
			{Name: "seed", Type: function.TypeInt, Default: seed},
			{Name: "min", Type: function.TypeInt, Default: min},
			{Name: "max", Type: function.TypeInt, Default: max},
		},
		size, min, max, r)
	return r
}

// DefaultRandomMatrix returns a 256×256 grid over [0, 255] with seed 0.
func DefaultRandomMatrix() *RandomMatrix {
	return NewRandomMatrix(DefaultSize, 0, DefaultMin, DefaultMax)
}

// ValidateInputs rejects ranges and seeds the hash cannot take before any
// hash call. The seed is the 32-bit hash seed, so it must lie in
// [0, math.MaxUint32]; max must stay below math.MaxInt because the hash
// range is half-open.
func (r *RandomMatrix) ValidateInputs(inputs []any) error {
	seed, lo, hi := inputs[0].(int), inputs[1].(int), inputs[2].(int)
	switch {
	case seed < 0 || uint64(seed) > math.MaxUint32:
		return function.Configf(r.Kind(), "seed", "seed %d is outside [0, %d]", seed, uint64(math.MaxUint32))
	case lo > hi:
		return function.Configf(r.Kind(), "min", "min %d is greater than max %d", lo, hi)
	case hi == math.MaxInt:
		return function.Configf(r.Kind(), "max", "max must be below %d", math.MaxInt)
	}
	return nil
}

func (r *RandomMatrix) GenerateCell(inputs []any, x, y int) (int, error) {
	seed, lo, hi := inputs[0].(int), inputs[1].(int), inputs[2].(int)
	return hash.Range(uint32(seed), lo, hi+1, x, y), nil
}

func (r *RandomMatrix) String() string {
	out := r.Output()
	lo, ok := IntParam(r, "min")
	if !ok {
		lo = out.Min
	}
	hi, ok := IntParam(r, "max")
	if !ok {
		hi = out.Max
	}
	return fmt.Sprintf("%s %dx%d -> [%d..%d]", r.Kind(), out.Size, out.Size, lo, hi)
}
