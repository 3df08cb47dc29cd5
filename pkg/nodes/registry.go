package nodes

import (
	"sort"

	"github.com/chazu/pcgrid/pkg/function"
)

// KindInfo describes a registered node kind for listings and tooling.
type KindInfo struct {
	Kind    string
	Summary string
	Params  []function.ParameterDefinition
	Output  function.Type
}

var registry = map[string]KindInfo{}

func register(proto function.Function, summary string) {
	registry[proto.Kind()] = KindInfo{
		Kind:    proto.Kind(),
		Summary: summary,
		Params:  proto.Params(),
		Output:  proto.Output().Type,
	}
}

func init() {
	register(DefaultRandomMatrix(), "hash-driven noise grid")
	register(NewShapeMask(DefaultSize, DefaultMin, DefaultMax), "circle or box mask with linear falloff")
	register(NewAdd(DefaultSize, 0, 2*DefaultMax), "cell-wise sum of two grids")
	register(NewThreshold(DefaultSize, DefaultMin, DefaultMax, 128), "binarize a grid at a level")
	register(NewInvert(DefaultSize, DefaultMin, DefaultMax), "mirror a grid within its range")
	register(NewConstant(0), "a single int")
}

// Lookup returns the description of a registered kind.
func Lookup(kind string) (KindInfo, bool) {
	info, ok := registry[kind]
	if ok {
		info.Params = append([]function.ParameterDefinition(nil), info.Params...)
	}
	return info, ok
}

// Kinds returns every registered kind name in sorted order.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
