package function

import (
	"fmt"

	"github.com/chazu/pcgrid/pkg/matrix"
)

// CellGenerator is the capability a grid-producing node kind implements.
// inputs are the node's resolved slot values in declaration order; they are
// the same slice for every cell of one evaluation and must not be modified.
type CellGenerator interface {
	GenerateCell(inputs []any, x, y int) (int, error)
}

// InputValidator is an optional CellGenerator extension. ValidateInputs runs
// once per evaluation, after inputs are resolved and before any cell is
// generated, so parameter problems surface as configuration errors instead of
// failing halfway through a grid.
type InputValidator interface {
	ValidateInputs(inputs []any) error
}

// CellPlanner is an optional CellGenerator extension for kinds that need
// per-evaluation setup. When implemented, the CellFunc returned by PlanCells
// generates every cell of that evaluation instead of GenerateCell.
type CellPlanner interface {
	PlanCells(inputs []any) (matrix.CellFunc, error)
}

// MatrixFunction is a Function whose output is always a Matrix of a fixed
// size and value range.
type MatrixFunction struct {
	*Node
	gen CellGenerator
}

// NewMatrixFunction creates a grid node. size, min and max make up the
// declared output shape and never change for the lifetime of the node.
func NewMatrixFunction(kind string, params []ParameterDefinition, size, min, max int, gen CellGenerator) *MatrixFunction {
	return &MatrixFunction{
		Node: NewNode(kind, params, MatrixOutput(size, min, max)),
		gen:  gen,
	}
}

// Evaluate resolves inputs and generates every cell in row-major order.
// A generated value outside the declared range fails with ErrRangeViolation.
func (f *MatrixFunction) Evaluate() (any, error) {
	if f.gen == nil {
		return nil, Configf(f.Kind(), "", "no cell generator")
	}
	out := f.Output()
	if out.Size <= 0 || out.Min > out.Max {
		return nil, Configf(f.Kind(), "", "invalid output shape %s", out)
	}

	inputs, err := f.Inputs()
	if err != nil {
		return nil, err
	}

	if v, ok := f.gen.(InputValidator); ok {
		if err := v.ValidateInputs(inputs); err != nil {
			return nil, err
		}
	}

	var cell matrix.CellFunc = func(x, y int) (int, error) {
		return f.gen.GenerateCell(inputs, x, y)
	}
	if p, ok := f.gen.(CellPlanner); ok {
		if cell, err = p.PlanCells(inputs); err != nil {
			return nil, err
		}
	}

	m, err := matrix.Generate(out.Size, out.Min, out.Max, cell)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Kind(), err)
	}
	return m, nil
}

func (f *MatrixFunction) String() string {
	return fmt.Sprintf("%s %s", f.Kind(), f.Output())
}
