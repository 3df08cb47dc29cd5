package graph

import (
	"errors"

	"github.com/chazu/pcgrid/pkg/function"
)

// SkipUpstream may be returned by a Walk visitor to skip the inputs of the
// node being visited.
var SkipUpstream = errors.New("graph: skip upstream")

// VisitFunc is called once per node. path names the chain of slots that
// leads from the root to the node ("" for the root itself, "source.a" for
// the "a" input of the root's "source" input).
type VisitFunc func(f function.Function, path string, depth int) error

// Walk visits root and everything upstream of it depth-first, in slot
// declaration order. A node shared by several slots is visited once, at the
// first path that reaches it. Any error other than SkipUpstream stops the
// walk and is returned.
func Walk(root function.Function, visit VisitFunc) error {
	if root == nil {
		return nil
	}
	seen := make(map[function.Function]bool)

	var walk func(f function.Function, path string, depth int) error
	walk = func(f function.Function, path string, depth int) error {
		if seen[f] {
			return nil
		}
		seen[f] = true

		if err := visit(f, path, depth); err != nil {
			if errors.Is(err, SkipUpstream) {
				return nil
			}
			return err
		}
		for _, p := range f.Params() {
			b, ok := f.Binding(p.Name)
			if !ok || !b.Upstream() {
				continue
			}
			if err := walk(b.Source, join(path, p.Name), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root, "", 0)
}

// Nodes returns every node reachable from root in Walk order.
func Nodes(root function.Function) []function.Function {
	var out []function.Function
	_ = Walk(root, func(f function.Function, _ string, _ int) error {
		out = append(out, f)
		return nil
	})
	return out
}

func join(path, slot string) string {
	if path == "" {
		return slot
	}
	return path + "." + slot
}

func displayPath(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
