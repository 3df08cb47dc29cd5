package function

import (
	"fmt"
)

// Function is an evaluable node in a pcgrid graph.
type Function interface {
	// Kind is the stable identifier of the node kind, not of the instance.
	Kind() string

	// Params returns the declared input slots in order.
	Params() []ParameterDefinition

	// Output describes the value Evaluate produces.
	Output() OutputDescriptor

	// Binding returns what currently feeds the named slot. The second result
	// is false when the slot is unbound (its default, if any, applies).
	Binding(name string) (Binding, bool)

	// Evaluate recursively evaluates upstream inputs and returns a new value.
	Evaluate() (any, error)

	// String is an advisory, human-readable description.
	String() string
}

// Node carries the shape and bindings every Function shares. Concrete node
// kinds embed a *Node and add an Evaluate method.
type Node struct {
	kind     string
	params   []ParameterDefinition
	output   OutputDescriptor
	bindings map[string]Binding
}

// NewNode creates a Node with a fixed kind, slot list and output descriptor.
// Slot names must be non-empty and unique; a violation is a bug in the node
// kind's constructor and panics.
func NewNode(kind string, params []ParameterDefinition, output OutputDescriptor) *Node {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name == "" {
			panic(fmt.Sprintf("function: %s: empty parameter name", kind))
		}
		if seen[p.Name] {
			panic(fmt.Sprintf("function: %s: duplicate parameter %q", kind, p.Name))
		}
		seen[p.Name] = true
	}

	defs := make([]ParameterDefinition, len(params))
	copy(defs, params)

	return &Node{
		kind:     kind,
		params:   defs,
		output:   output,
		bindings: make(map[string]Binding),
	}
}

// node gives Bind a way to recognise a Node through any Function that
// embeds it.
func (n *Node) node() *Node { return n }

type embedsNode interface {
	node() *Node
}

// Kind returns the node kind identifier.
func (n *Node) Kind() string { return n.kind }

// Params returns a copy of the declared slots.
func (n *Node) Params() []ParameterDefinition {
	out := make([]ParameterDefinition, len(n.params))
	copy(out, n.params)
	return out
}

// Param returns the definition of the named slot.
func (n *Node) Param(name string) (ParameterDefinition, bool) {
	for _, p := range n.params {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterDefinition{}, false
}

// Output returns the output descriptor.
func (n *Node) Output() OutputDescriptor { return n.output }

// Binding returns the current binding of the named slot.
func (n *Node) Binding(name string) (Binding, bool) {
	b, ok := n.bindings[name]
	return b, ok
}

// Set binds a constant value to the named slot, replacing any previous
// binding. The value must match the slot type.
func (n *Node) Set(name string, value any) error {
	p, ok := n.Param(name)
	if !ok {
		return Configf(n.kind, name, "no such parameter")
	}
	if t, ok := TypeOf(value); !ok || t != p.Type {
		return &TypeError{Kind: n.kind, Param: name, Want: p.Type, Got: describe(value)}
	}
	n.bindings[name] = Binding{Value: value}
	return nil
}

// Bind feeds the named slot from an upstream node. The upstream output type
// must match the slot type, and the binding must not introduce a cycle.
func (n *Node) Bind(name string, upstream Function) error {
	p, ok := n.Param(name)
	if !ok {
		return Configf(n.kind, name, "no such parameter")
	}
	if upstream == nil {
		return Configf(n.kind, name, "nil upstream node")
	}
	if got := upstream.Output().Type; got != p.Type {
		return &TypeError{Kind: n.kind, Param: name, Want: p.Type, Got: got.String()}
	}
	if reaches(upstream, n, make(map[Function]bool)) {
		return fmt.Errorf("%s: parameter %q: %w", n.kind, name, ErrCycle)
	}
	n.bindings[name] = Binding{Source: upstream}
	return nil
}

// Unset removes the binding of the named slot so its default applies again.
func (n *Node) Unset(name string) {
	delete(n.bindings, name)
}

// reaches reports whether target is f itself or anything upstream of f.
func reaches(f Function, target *Node, seen map[Function]bool) bool {
	if e, ok := f.(embedsNode); ok && e.node() == target {
		return true
	}
	if seen[f] {
		return false
	}
	seen[f] = true
	for _, p := range f.Params() {
		if b, ok := f.Binding(p.Name); ok && b.Upstream() {
			if reaches(b.Source, target, seen) {
				return true
			}
		}
	}
	return false
}

// Inputs resolves every slot in declaration order: upstream nodes are
// evaluated (once each, on every call), constants are used as bound, and
// unbound slots fall back to their default. An unbound required slot is a
// configuration error.
func (n *Node) Inputs() ([]any, error) {
	values := make([]any, len(n.params))
	for i, p := range n.params {
		b, bound := n.bindings[p.Name]

		var v any
		switch {
		case bound && b.Upstream():
			out, err := b.Source.Evaluate()
			if err != nil {
				return nil, fmt.Errorf("%s: input %q: %w", n.kind, p.Name, err)
			}
			v = out
		case bound:
			v = b.Value
		case !p.Required():
			v = p.Default
		default:
			return nil, Configf(n.kind, p.Name, "required parameter is not bound")
		}

		if t, ok := TypeOf(v); !ok || t != p.Type {
			return nil, &TypeError{Kind: n.kind, Param: p.Name, Want: p.Type, Got: describe(v)}
		}
		values[i] = v
	}
	return values, nil
}
