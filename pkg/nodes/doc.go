// Package nodes is the built-in library of pcgrid node kinds.
//
// Leaf generators (random-matrix, shape-mask, constant) take no upstream
// grids; combinators (matrix-add, threshold, invert) read one or two
// upstream matrices cell by cell. Every grid-producing kind is a
// function.MatrixFunction with a fixed output shape chosen at construction.
package nodes
