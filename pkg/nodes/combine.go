package nodes

import (
	"fmt"
	"math"

	"github.com/chazu/pcgrid/pkg/function"
	"github.com/chazu/pcgrid/pkg/matrix"
)

// Combinator kinds.
const (
	KindAdd       = "matrix-add"
	KindThreshold = "threshold"
	KindInvert    = "invert"
)

// at reads a cell the caller has already bounds-checked through sameSize.
func at(m *matrix.Matrix, x, y int) int {
	v, _ := m.At(x, y)
	return v
}

// ---------------------------------------------------------------------------
// matrix-add
// ---------------------------------------------------------------------------

// Add sums two upstream grids of the same size cell by cell.
type Add struct {
	*function.MatrixFunction
}

// NewAdd creates an adder. The declared range must hold every sum the
// inputs can produce; AddOf derives it from two upstream nodes.
func NewAdd(size, min, max int) *Add {
	a := &Add{}
	a.MatrixFunction = function.NewMatrixFunction(KindAdd,
		[]function.ParameterDefinition{
			{Name: "a", Type: function.TypeMatrix},
			{Name: "b", Type: function.TypeMatrix},
		},
		size, min, max, a)
	return a
}

// AddOf creates an adder bound to a and b, sized and ranged from their
// output descriptors.
func AddOf(a, b function.Function) (*Add, error) {
	oa, ob := a.Output(), b.Output()
	if oa.Size != ob.Size {
		return nil, function.Configf(KindAdd, "b", "input is %dx%d, want %dx%d",
			ob.Size, ob.Size, oa.Size, oa.Size)
	}
	if addOverflows(oa.Min, ob.Min) || addOverflows(oa.Max, ob.Max) {
		return nil, function.Configf(KindAdd, "b", "sum of [%d..%d] and [%d..%d] does not fit in an int",
			oa.Min, oa.Max, ob.Min, ob.Max)
	}
	n := NewAdd(oa.Size, oa.Min+ob.Min, oa.Max+ob.Max)
	if err := n.Bind("a", a); err != nil {
		return nil, err
	}
	if err := n.Bind("b", b); err != nil {
		return nil, err
	}
	return n, nil
}

func addOverflows(a, b int) bool {
	return (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b)
}

func (a *Add) ValidateInputs(inputs []any) error {
	if err := sameSize(a, "a", inputs[0].(*matrix.Matrix)); err != nil {
		return err
	}
	return sameSize(a, "b", inputs[1].(*matrix.Matrix))
}

func (a *Add) GenerateCell(inputs []any, x, y int) (int, error) {
	return at(inputs[0].(*matrix.Matrix), x, y) + at(inputs[1].(*matrix.Matrix), x, y), nil
}

// ---------------------------------------------------------------------------
// threshold
// ---------------------------------------------------------------------------

// Threshold maps each upstream cell to the maximum of the declared range
// when it is >= level and to the minimum otherwise.
type Threshold struct {
	*function.MatrixFunction
}

// NewThreshold creates a threshold node. level defaults to the given value.
func NewThreshold(size, min, max, level int) *Threshold {
	t := &Threshold{}
	t.MatrixFunction = function.NewMatrixFunction(KindThreshold,
		[]function.ParameterDefinition{
			{Name: "source", Type: function.TypeMatrix},
			{Name: "level", Type: function.TypeInt, Default: level},
		},
		size, min, max, t)
	return t
}

// ThresholdOf creates a threshold node bound to source, keeping its size
// and range. level defaults to the midpoint of the source range.
func ThresholdOf(source function.Function) (*Threshold, error) {
	o := source.Output()
	t := NewThreshold(o.Size, o.Min, o.Max, o.Min+int((uint64(o.Max)-uint64(o.Min))/2))
	if err := t.Bind("source", source); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Threshold) ValidateInputs(inputs []any) error {
	return sameSize(t, "source", inputs[0].(*matrix.Matrix))
}

func (t *Threshold) GenerateCell(inputs []any, x, y int) (int, error) {
	out := t.Output()
	if at(inputs[0].(*matrix.Matrix), x, y) >= inputs[1].(int) {
		return out.Max, nil
	}
	return out.Min, nil
}

func (t *Threshold) String() string {
	s := t.MatrixFunction.String()
	if level, ok := IntParam(t, "level"); ok {
		s += fmt.Sprintf(" level %d", level)
	}
	return s
}

// ---------------------------------------------------------------------------
// invert
// ---------------------------------------------------------------------------

// Invert mirrors each upstream cell within the upstream grid's own range,
// so min becomes max and max becomes min.
type Invert struct {
	*function.MatrixFunction
}

// NewInvert creates an inverter over [min, max].
func NewInvert(size, min, max int) *Invert {
	i := &Invert{}
	i.MatrixFunction = function.NewMatrixFunction(KindInvert,
		[]function.ParameterDefinition{
			{Name: "source", Type: function.TypeMatrix},
		},
		size, min, max, i)
	return i
}

// InvertOf creates an inverter bound to source, keeping its size and range.
func InvertOf(source function.Function) (*Invert, error) {
	o := source.Output()
	i := NewInvert(o.Size, o.Min, o.Max)
	if err := i.Bind("source", source); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *Invert) ValidateInputs(inputs []any) error {
	return sameSize(i, "source", inputs[0].(*matrix.Matrix))
}

func (i *Invert) GenerateCell(inputs []any, x, y int) (int, error) {
	src := inputs[0].(*matrix.Matrix)
	// min + (max - v), in unsigned arithmetic so wide ranges cannot wrap.
	return int(uint64(src.Min()) + (uint64(src.Max()) - uint64(at(src, x, y)))), nil
}
