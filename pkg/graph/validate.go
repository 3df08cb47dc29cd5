package graph

import (
	"fmt"

	"github.com/chazu/pcgrid/pkg/function"
	"github.com/hashicorp/go-multierror"
)

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Path     string             // slot path from the root, "" for the root
	Kind     string             // kind of the offending node
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s (%s): %s", e.Severity, displayPath(e.Path), e.Kind, e.Message)
}

// Validate checks the graph under root without evaluating it. An empty
// result means evaluation can start; it can still fail on generated values.
// Validate is read-only.
func Validate(root function.Function) []ValidationError {
	if root == nil {
		return []ValidationError{{Message: "no node bound", Severity: SeverityError}}
	}

	var errs []ValidationError
	errs = append(errs, validateDAG(root)...)
	if len(errs) > 0 {
		// The remaining checks walk the graph and assume it is acyclic.
		return errs
	}
	_ = Walk(root, func(f function.Function, path string, _ int) error {
		errs = append(errs, validateOutput(f, path)...)
		errs = append(errs, validateSlots(f, path)...)
		return nil
	})
	return errs
}

// Check runs Validate and folds every error-severity finding into one
// *multierror.Error. Warnings are dropped. It returns nil when nothing
// blocks evaluation.
func Check(root function.Function) error {
	var result *multierror.Error
	for _, e := range Validate(root) {
		if e.Severity == SeverityError {
			result = multierror.Append(result, e)
		}
	}
	return result.ErrorOrNil()
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
// Reaching a gray node means the current path loops back on itself.
func validateDAG(root function.Function) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[function.Function]int)
	var errs []ValidationError

	var visit func(f function.Function, path string) bool
	visit = func(f function.Function, path string) bool {
		switch color[f] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				Path:     path,
				Kind:     f.Kind(),
				Message:  "cycle detected: node feeds its own input",
				Severity: SeverityError,
			})
			return true
		}

		color[f] = gray
		for _, p := range f.Params() {
			if b, ok := f.Binding(p.Name); ok && b.Upstream() {
				if visit(b.Source, join(path, p.Name)) {
					return true
				}
			}
		}
		color[f] = black
		return false
	}
	visit(root, "")
	return errs
}

// validateOutput checks the declared output shape of grid-producing nodes.
func validateOutput(f function.Function, path string) []ValidationError {
	out := f.Output()
	if out.Type != function.TypeMatrix {
		return nil
	}
	var errs []ValidationError
	if out.Size <= 0 {
		errs = append(errs, ValidationError{
			Path: path, Kind: f.Kind(),
			Message:  fmt.Sprintf("size must be positive, got %d", out.Size),
			Severity: SeverityError,
		})
	}
	if out.Min > out.Max {
		errs = append(errs, ValidationError{
			Path: path, Kind: f.Kind(),
			Message:  fmt.Sprintf("empty output range [%d..%d]", out.Min, out.Max),
			Severity: SeverityError,
		})
	}
	return errs
}

// validateSlots reports unbound required slots, and upstream grids whose
// size differs from the node's own.
func validateSlots(f function.Function, path string) []ValidationError {
	var errs []ValidationError
	out := f.Output()

	for _, p := range f.Params() {
		b, bound := f.Binding(p.Name)
		if !bound {
			if p.Required() {
				errs = append(errs, ValidationError{
					Path: path, Kind: f.Kind(),
					Message:  fmt.Sprintf("required parameter %q is not bound", p.Name),
					Severity: SeverityError,
				})
			}
			continue
		}
		if !b.Upstream() || p.Type != function.TypeMatrix || out.Type != function.TypeMatrix {
			continue
		}
		if up := b.Source.Output(); up.Size != out.Size {
			errs = append(errs, ValidationError{
				Path: join(path, p.Name), Kind: b.Source.Kind(),
				Message: fmt.Sprintf("feeds a %dx%d grid into %q of a %dx%d node",
					up.Size, up.Size, p.Name, out.Size, out.Size),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
