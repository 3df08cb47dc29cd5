package graph

import (
	"fmt"
	"strings"

	"github.com/chazu/pcgrid/pkg/function"
)

// Describe renders the graph under root as an indented tree, one node or
// constant slot per line:
//
//	threshold 4x4 -> [0..9] level 4
//	  source: random-matrix 4x4 -> [0..9]
//	    seed = 42
//	    min = 0
//	    max = 9
//	  level = 4
//
// Unbound slots show their default, or "<unbound>" when required. A node
// reached a second time is printed once more but its inputs are not
// repeated.
func Describe(root function.Function) string {
	if root == nil {
		return "<no node>\n"
	}
	var b strings.Builder
	seen := make(map[function.Function]bool)

	var describe func(f function.Function, label string, depth int)
	describe = func(f function.Function, label string, depth int) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(&b, "%s%s%s", indent, label, f.String())
		if seen[f] {
			b.WriteString(" (shared)\n")
			return
		}
		b.WriteByte('\n')
		seen[f] = true

		for _, p := range f.Params() {
			bnd, bound := f.Binding(p.Name)
			switch {
			case bound && bnd.Upstream():
				describe(bnd.Source, p.Name+": ", depth+1)
			case bound:
				fmt.Fprintf(&b, "%s  %s = %s\n", indent, p.Name, literal(bnd.Value))
			case !p.Required():
				fmt.Fprintf(&b, "%s  %s = %s\n", indent, p.Name, literal(p.Default))
			default:
				fmt.Fprintf(&b, "%s  %s = <unbound>\n", indent, p.Name)
			}
		}
	}
	describe(root, "", 0)
	return b.String()
}
