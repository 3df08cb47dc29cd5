// Package graph inspects pcgrid node graphs: it walks them, derives
// structural signatures for cache keys, validates bindings before
// evaluation, and renders a readable tree.
//
// A graph is never stored as its own data structure. It is whatever is
// reachable from a root function.Function through upstream bindings.
package graph
