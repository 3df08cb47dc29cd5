package nodes

import (
	"github.com/chazu/pcgrid/pkg/function"
	"github.com/chazu/pcgrid/pkg/matrix"
)

// IntParam returns the constant value currently feeding an int slot: the
// bound constant, or the default when unbound. ok is false when the slot is
// fed by an upstream node or has no value yet.
func IntParam(f function.Function, name string) (v int, ok bool) {
	if b, bound := f.Binding(name); bound {
		if b.Upstream() {
			return 0, false
		}
		v, ok = b.Value.(int)
		return v, ok
	}
	for _, p := range f.Params() {
		if p.Name == name {
			v, ok = p.Default.(int)
			return v, ok
		}
	}
	return 0, false
}

// sameSize checks that an upstream grid matches the node's own size.
func sameSize(f function.Function, param string, m *matrix.Matrix) error {
	if want := f.Output().Size; m.Size() != want {
		return function.Configf(f.Kind(), param, "input is %dx%d, want %dx%d",
			m.Size(), m.Size(), want, want)
	}
	return nil
}
