package nodes

import (
	"math"

	"github.com/chazu/pcgrid/pkg/function"
	"github.com/chazu/pcgrid/pkg/matrix"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// KindShapeMask identifies the signed-distance shape rasterizer.
const KindShapeMask = "shape-mask"

// Shape names accepted by the shape-mask "shape" slot.
const (
	ShapeCircle = "circle"
	ShapeBox    = "box"
)

// ShapeMask rasterizes a 2-D signed distance field centred on the grid.
// Cells inside the outline get the maximum of the declared range, cells
// beyond radius+falloff get the minimum, and the falloff band ramps
// linearly between them.
//
// Slots: shape (text, "circle" or "box"), radius (int, half-width for
// boxes) and falloff (int, >= 0).
type ShapeMask struct {
	*function.MatrixFunction
}

// NewShapeMask creates a size×size mask over [min, max]. The radius slot
// defaults to a quarter of the grid.
func NewShapeMask(size, min, max int) *ShapeMask {
	radius := size / 4
	if radius < 1 {
		radius = 1
	}
	s := &ShapeMask{}
	s.MatrixFunction = function.NewMatrixFunction(KindShapeMask,
		[]function.ParameterDefinition{
			{Name: "shape", Type: function.TypeText, Default: ShapeCircle},
			{Name: "radius", Type: function.TypeInt, Default: radius},
			{Name: "falloff", Type: function.TypeInt, Default: 0},
		},
		size, min, max, s)
	return s
}

func (s *ShapeMask) ValidateInputs(inputs []any) error {
	_, err := s.outline(inputs)
	if err != nil {
		return err
	}
	if falloff := inputs[2].(int); falloff < 0 {
		return function.Configf(s.Kind(), "falloff", "must be >= 0, got %d", falloff)
	}
	return nil
}

// PlanCells builds the distance field once per evaluation.
func (s *ShapeMask) PlanCells(inputs []any) (matrix.CellFunc, error) {
	field, err := s.outline(inputs)
	if err != nil {
		return nil, err
	}
	falloff := inputs[2].(int)
	return func(x, y int) (int, error) {
		return s.shade(field, falloff, x, y), nil
	}, nil
}

func (s *ShapeMask) GenerateCell(inputs []any, x, y int) (int, error) {
	field, err := s.outline(inputs)
	if err != nil {
		return 0, err
	}
	return s.shade(field, inputs[2].(int), x, y), nil
}

// outline builds the SDF for the shape and radius slots, centred on the
// middle of the grid.
func (s *ShapeMask) outline(inputs []any) (sdf.SDF2, error) {
	shape, radius := inputs[0].(string), inputs[1].(int)
	if radius <= 0 {
		return nil, function.Configf(s.Kind(), "radius", "must be > 0, got %d", radius)
	}

	var field sdf.SDF2
	switch shape {
	case ShapeCircle:
		c, err := sdf.Circle2D(float64(radius))
		if err != nil {
			return nil, function.Configf(s.Kind(), "radius", "%v", err)
		}
		field = c
	case ShapeBox:
		side := float64(2 * radius)
		field = sdf.Box2D(v2.Vec{X: side, Y: side}, 0)
	default:
		return nil, function.Configf(s.Kind(), "shape", "unknown shape %q (want %s or %s)",
			shape, ShapeCircle, ShapeBox)
	}

	half := float64(s.Output().Size) / 2
	return sdf.Transform2D(field, sdf.Translate2d(v2.Vec{X: half, Y: half})), nil
}

// shade maps the distance at the centre of cell (x, y) into the output range.
func (s *ShapeMask) shade(field sdf.SDF2, falloff, x, y int) int {
	out := s.Output()
	d := field.Evaluate(v2.Vec{X: float64(x) + 0.5, Y: float64(y) + 0.5})
	switch {
	case d <= 0:
		return out.Max
	case falloff == 0 || d >= float64(falloff):
		return out.Min
	}
	w := float64(out.Max) - float64(out.Min)
	off := math.Round((1 - d/float64(falloff)) * w)
	if off >= w {
		return out.Max
	}
	return int(uint64(out.Min) + uint64(off))
}
