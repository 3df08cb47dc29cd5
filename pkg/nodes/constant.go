package nodes

import (
	"fmt"

	"github.com/chazu/pcgrid/pkg/function"
)

// KindConstant identifies a node that produces a single int.
const KindConstant = "constant"

// Constant is a leaf producing the int in its "value" slot. It lets an int
// slot be fed by a node, which is how the engine represents literal
// program results.
type Constant struct {
	*function.Node
}

// NewConstant creates a constant node whose value slot defaults to value.
func NewConstant(value int) *Constant {
	return &Constant{
		Node: function.NewNode(KindConstant,
			[]function.ParameterDefinition{{Name: "value", Type: function.TypeInt, Default: value}},
			function.OutputDescriptor{Type: function.TypeInt}),
	}
}

func (c *Constant) Evaluate() (any, error) {
	inputs, err := c.Inputs()
	if err != nil {
		return nil, err
	}
	return inputs[0], nil
}

func (c *Constant) String() string {
	if v, ok := IntParam(c, "value"); ok {
		return fmt.Sprintf("%s %d", c.Kind(), v)
	}
	return c.Kind()
}
