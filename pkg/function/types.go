package function

import (
	"fmt"

	"github.com/chazu/pcgrid/pkg/matrix"
)

// Type tags the value carried by a slot or produced by a node.
type Type int

const (
	TypeInt    Type = iota // Go int
	TypeText               // Go string
	TypeMatrix             // *matrix.Matrix
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeText:
		return "text"
	case TypeMatrix:
		return "matrix"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// TypeOf returns the Type tag of a value, or false if the value is not one
// pcgrid nodes exchange.
func TypeOf(v any) (Type, bool) {
	switch v := v.(type) {
	case int:
		return TypeInt, true
	case string:
		return TypeText, true
	case *matrix.Matrix:
		return TypeMatrix, v != nil
	}
	return 0, false
}

// ParameterDefinition describes one named, typed input slot.
// A nil Default marks the slot as required.
type ParameterDefinition struct {
	Name    string
	Type    Type
	Default any
}

// Required reports whether the slot has no default.
func (p ParameterDefinition) Required() bool {
	return p.Default == nil
}

// OutputDescriptor describes what a node produces. Size, Min and Max are
// only meaningful when Type is TypeMatrix.
type OutputDescriptor struct {
	Type Type
	Size int
	Min  int
	Max  int
}

// MatrixOutput returns the descriptor of a size×size grid in [min, max].
func MatrixOutput(size, min, max int) OutputDescriptor {
	return OutputDescriptor{Type: TypeMatrix, Size: size, Min: min, Max: max}
}

func (o OutputDescriptor) String() string {
	if o.Type == TypeMatrix {
		return fmt.Sprintf("%dx%d -> [%d..%d]", o.Size, o.Size, o.Min, o.Max)
	}
	return o.Type.String()
}

// Binding is what currently feeds a slot: a constant Value, or the output of
// an upstream Source node.
type Binding struct {
	Value  any
	Source Function
}

// Upstream reports whether the slot is fed by another node.
func (b Binding) Upstream() bool {
	return b.Source != nil
}
