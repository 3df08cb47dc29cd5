// Package function defines the evaluable node abstraction for pcgrid.
//
// A Function declares typed input slots (ParameterDefinitions) and an output
// descriptor. Each slot is bound either to a constant or to an upstream
// Function; Evaluate resolves the slots depth-first and produces a value.
// MatrixFunction specializes this for grid outputs and delegates the per-cell
// work to a CellGenerator, the single capability a new generator kind has to
// implement.
//
// Evaluation is synchronous and uncached at this level. Memoization is a
// query-boundary concern (see package cache).
package function
